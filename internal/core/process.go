package core

// process.go drives the Generate → Dispatch pipeline for every valid record
// and assembles the final BatchReport.
//
// Each record is independent, so records run on a bounded worker pool.
// Outcomes land in a slice preallocated per record, which keeps counts exact
// and ordering deterministic without a shared accumulator: validation errors
// stay in row-ordinal order and processing errors are appended after them in
// record order. A failure on one record never aborts or skips the others.

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxWorkers bounds concurrent Generate→Dispatch pipelines when the
// caller does not configure a limit.
const DefaultMaxWorkers = 4

// ProcessorOptions configures a Processor.
type ProcessorOptions struct {
	// CompanyName appears in the email subject and body.
	CompanyName string

	// MaxWorkers bounds concurrent record pipelines (default: DefaultMaxWorkers).
	MaxWorkers int

	// DispatchTimeout bounds each dispatch call so a stalled transport
	// cannot block a row's pipeline indefinitely. Zero disables the bound.
	DispatchTimeout time.Duration
}

// Processor orchestrates invoice generation and dispatch for a batch.
type Processor struct {
	gen  Generator
	disp Dispatcher
	opts ProcessorOptions
}

// NewProcessor creates a Processor over the given collaborators.
func NewProcessor(gen Generator, disp Dispatcher, opts ProcessorOptions) *Processor {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = DefaultMaxWorkers
	}
	return &Processor{gen: gen, disp: disp, opts: opts}
}

// recordOutcome is the terminal state of one record's pipeline:
// exactly one of procErr or success is set.
type recordOutcome struct {
	procErr   *ProcessingError
	success   *InvoiceSummary
	processed bool // generation completed, regardless of dispatch result
	delivered bool // dispatch reported success
}

// ProcessCSV parses the payload and runs the batch in one call.
// Batch-level errors return before any row processing; everything else is
// captured inside the report.
func (p *Processor) ProcessCSV(ctx context.Context, data []byte) (*BatchReport, error) {
	batch, err := ParseBatch(data)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, batch), nil
}

// Run processes every valid record in the batch exhaustively and returns
// the aggregate report. No retries are performed: a transient dispatch
// failure is reported once and not reattempted within the batch run.
func (p *Processor) Run(ctx context.Context, batch *ParseResult) *BatchReport {
	start := time.Now()
	outcomes := make([]recordOutcome, len(batch.Records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxWorkers)

	for i, rec := range batch.Records {
		i, rec := i, rec
		g.Go(func() error {
			outcomes[i] = p.processRecord(gctx, rec)
			return nil
		})
	}
	// Workers never return errors; they record outcomes instead.
	_ = g.Wait()

	report := &BatchReport{
		Status:            "success",
		TotalRows:         batch.TotalRows,
		Errors:            []ReportError{},
		GeneratedInvoices: []InvoiceSummary{},
	}

	// Validation errors first, in row-ordinal order.
	for _, rowErr := range batch.RowErrors {
		report.Errors = append(report.Errors, reportValidationError(rowErr))
	}

	// Processing outcomes follow, in record order.
	for _, out := range outcomes {
		if out.processed {
			report.Processed++
		}
		if out.delivered {
			report.EmailSent++
		}
		if out.procErr != nil {
			report.Errors = append(report.Errors, ReportError{
				Row:      out.procErr.Row,
				Stage:    string(out.procErr.Stage),
				Messages: []string{out.procErr.Reason},
			})
		}
		if out.success != nil {
			report.GeneratedInvoices = append(report.GeneratedInvoices, *out.success)
		}
	}

	slog.Info("batch complete",
		"total_rows", report.TotalRows,
		"valid", len(batch.Records),
		"processed", report.Processed,
		"email_sent", report.EmailSent,
		"errors", len(report.Errors),
		"duration", time.Since(start),
	)

	return report
}

// processRecord runs one record through Generate then Dispatch.
// A generation failure stops the record before dispatch and excludes it
// from the processed count; a dispatch failure still counts the record as
// processed, since it was successfully processed up to generation.
func (p *Processor) processRecord(ctx context.Context, rec Record) recordOutcome {
	artifact, err := p.gen.Generate(ctx, rec)
	if err != nil {
		slog.Warn("invoice generation failed", "row", rec.Row, "client", rec.ClientName, "error", err)
		return recordOutcome{procErr: &ProcessingError{
			Row:    rec.Row,
			Stage:  StageGeneration,
			Client: rec.ClientName,
			Reason: fmt.Sprintf("Processing error: %v", err),
		}}
	}

	subject := fmt.Sprintf("Invoice from %s", p.opts.CompanyName)
	body := fmt.Sprintf(
		"Dear %s,\n\nPlease find attached your invoice.\n\nThank you,\n%s",
		rec.ClientName, p.opts.CompanyName,
	)

	dctx := ctx
	if p.opts.DispatchTimeout > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, p.opts.DispatchTimeout)
		defer cancel()
	}

	outcome, err := p.disp.Dispatch(dctx, rec.ClientEmail, subject, body, artifact.Locator)
	if err != nil || !outcome.Success {
		reason := fmt.Sprintf("Failed to send email to %s", rec.ClientEmail)
		if err != nil {
			slog.Warn("dispatch failed", "row", rec.Row, "to", rec.ClientEmail, "error", err)
		} else {
			slog.Warn("dispatch not delivered", "row", rec.Row, "to", rec.ClientEmail, "reason", outcome.Reason)
		}
		return recordOutcome{
			processed: true,
			procErr: &ProcessingError{
				Row:    rec.Row,
				Stage:  StageDispatch,
				Client: rec.ClientName,
				Reason: reason,
			},
		}
	}

	return recordOutcome{
		processed: true,
		delivered: true,
		success: &InvoiceSummary{
			Client:    rec.ClientName,
			URL:       invoiceURL(artifact.Locator),
			Simulated: outcome.Simulated,
		},
	}
}

// invoiceURL maps an artifact locator to the public path it is served from.
func invoiceURL(locator string) string {
	return path.Join("/invoices", filepath.Base(locator))
}

func reportValidationError(rowErr RowError) ReportError {
	msgs := make([]string, len(rowErr.Errors))
	for i, fe := range rowErr.Errors {
		msgs[i] = fe.Message
	}
	return ReportError{
		Row:      rowErr.Row,
		Stage:    "validation",
		Messages: msgs,
		Data:     rowErr.Data,
	}
}
