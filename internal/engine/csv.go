package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"strategylab/types"
)

// WriteTradesCSVFile writes the trade ledger to a CSV file at the given path.
func WriteTradesCSVFile(path string, trades []types.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trades file: %w", err)
	}
	defer f.Close()

	return WriteTradesCSV(f, trades)
}

// WriteTradesCSV writes the trade ledger to any io.Writer as CSV.
func WriteTradesCSV(w io.Writer, trades []types.Trade) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"date", "action", "quantity", "price", "reason"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, t := range trades {
		record := []string{
			t.Date.Format(types.DateLayout),
			string(t.Action),
			t.Quantity.String(),
			t.Price.String(),
			t.Reason,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}

// WriteEquityCurveCSVFile writes the equity curve to a CSV file at the given
// path.
func WriteEquityCurveCSVFile(path string, curve []types.EquityPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create equity curve file: %w", err)
	}
	defer f.Close()

	return WriteEquityCurveCSV(f, curve)
}

// WriteEquityCurveCSV writes the equity curve to any io.Writer as CSV.
func WriteEquityCurveCSV(w io.Writer, curve []types.EquityPoint) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"date", "portfolio_value"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, p := range curve {
		record := []string{p.Date.Format(types.DateLayout), p.PortfolioValue.String()}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}
