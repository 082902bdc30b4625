// Package admission assigns per-year admission numbers to new students.
package admission

import (
	"context"
	"fmt"
)

// SerialSource reports the highest year serial already assigned for an
// admission year, or 0 when the year has no students.
type SerialSource interface {
	MaxYearSerial(ctx context.Context, admissionYear int) (int, error)
}

// Generator derives the next admission number from a SerialSource.
//
// Next is only gap-free and unique when calls for the same year are
// serialized together with the insert that consumes the result; callers
// hold the per-year registration lock around Next and the insert.
type Generator struct {
	src SerialSource
}

// NewGenerator creates a Generator reading from src.
func NewGenerator(src SerialSource) *Generator {
	return &Generator{src: src}
}

// Next returns the serial and admission number the next student admitted
// in admissionYear receives.
func (g *Generator) Next(ctx context.Context, admissionYear int) (int, string, error) {
	maxSerial, err := g.src.MaxYearSerial(ctx, admissionYear)
	if err != nil {
		return 0, "", fmt.Errorf("max year serial: %w", err)
	}
	serial := maxSerial + 1
	return serial, Format(admissionYear, serial), nil
}

// Format renders an admission number, e.g. Format(2025, 7) == "2025-007".
// Serials beyond 999 keep all their digits.
func Format(admissionYear, yearSerial int) string {
	return fmt.Sprintf("%d-%03d", admissionYear, yearSerial)
}
