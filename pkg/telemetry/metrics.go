package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names exported to Prometheus.
const (
	MetricSoknadLagret                = "hm_soknad_lagret_joark"
	MetricPdfGenerert                 = "hm_soknad_pdf_generert"
	MetricFerdigstiltJournalpost      = "hm_ferdigstilt_journalpost_opprettet"
	MetricMottattJournalpost          = "hm_mottatt_journalpost_opprettet"
	MetricFeilregistrertSakstilknytng = "hm_feilregistrert_sakstilknytning_journalpost"
	MetricSoknadMottatt               = "hm_soknad_mottatt"
)

// Metrics holds the business counters. The zero value is not usable; use
// NewMetrics. A nil *Metrics is a no-op.
type Metrics struct {
	soknadLagret   metric.Int64Counter
	pdfGenerert    metric.Int64Counter
	ferdigstilt    metric.Int64Counter
	mottatt        metric.Int64Counter
	feilregistrert metric.Int64Counter
	soknadMottatt  metric.Int64Counter
}

// NewMetrics creates the counters on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("hm-joark-sink")
	m := &Metrics{}
	for _, c := range []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.soknadLagret, MetricSoknadLagret, "Documents archived"},
		{&m.pdfGenerert, MetricPdfGenerert, "PDFs rendered"},
		{&m.ferdigstilt, MetricFerdigstiltJournalpost, "Journal posts created and finalized"},
		{&m.mottatt, MetricMottattJournalpost, "Journal posts created with status MOTTATT"},
		{&m.feilregistrert, MetricFeilregistrertSakstilknytng, "Case links registered as erroneous"},
		{&m.soknadMottatt, MetricSoknadMottatt, "Applications received on the intake listener"},
	} {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", c.name, err)
		}
		*c.dst = counter
	}
	return m, nil
}

// SoknadLagret counts an archived document.
func (m *Metrics) SoknadLagret(ctx context.Context, dokumenttype string) {
	add(ctx, m, func() metric.Int64Counter { return m.soknadLagret }, dokumenttype)
}

// PdfGenerert counts a rendered PDF.
func (m *Metrics) PdfGenerert(ctx context.Context, dokumenttype string) {
	add(ctx, m, func() metric.Int64Counter { return m.pdfGenerert }, dokumenttype)
}

// FerdigstiltJournalpost counts a finalized journal post.
func (m *Metrics) FerdigstiltJournalpost(ctx context.Context, dokumenttype string) {
	add(ctx, m, func() metric.Int64Counter { return m.ferdigstilt }, dokumenttype)
}

// MottattJournalpost counts a journal post left in status MOTTATT.
func (m *Metrics) MottattJournalpost(ctx context.Context, dokumenttype string) {
	add(ctx, m, func() metric.Int64Counter { return m.mottatt }, dokumenttype)
}

// FeilregistrertSakstilknytning counts an erroneous case link.
func (m *Metrics) FeilregistrertSakstilknytning(ctx context.Context) {
	add(ctx, m, func() metric.Int64Counter { return m.feilregistrert }, "")
}

// SoknadMottatt counts an application received for storage.
func (m *Metrics) SoknadMottatt(ctx context.Context) {
	add(ctx, m, func() metric.Int64Counter { return m.soknadMottatt }, "")
}

func add(ctx context.Context, m *Metrics, get func() metric.Int64Counter, dokumenttype string) {
	if m == nil {
		return
	}
	c := get()
	if dokumenttype == "" {
		c.Add(ctx, 1)
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(attribute.String("dokumenttype", dokumenttype)))
}
