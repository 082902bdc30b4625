package config

type WorkerKeyStruct struct {
	ReportExportQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ReportExportQueue: "report_export_queue",
}
