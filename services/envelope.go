package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"skill-hand/models"
)

// Fehlermeldungen, wie sie im Feld errors[].message erscheinen.
const (
	MsgDataRequired     = "Error:'data' field is required."
	MsgFieldRequiredFmt = "Error:'%s' field is required in 'data' object."
	MsgCouldNotComplete = "Could not complete operation for record."
)

// BatchProcessor wendet einen Skill auf jeden Record eines Batches an.
// Ein fehlerhafter Record beeinflusst nie die anderen.
type BatchProcessor struct {
	workers int
	metrics *Metrics
	logger  *zap.Logger
}

// NewBatchProcessor erstellt einen Prozessor mit höchstens workers parallelen Records.
func NewBatchProcessor(workers int, metrics *Metrics, logger *zap.Logger) *BatchProcessor {
	if workers < 1 {
		workers = 1
	}
	return &BatchProcessor{workers: workers, metrics: metrics, logger: logger}
}

// Process verarbeitet den Batch und gibt die Antwort in Eingabereihenfolge zurück.
// Records ohne recordId fehlen in der Antwort.
func (p *BatchProcessor) Process(batch *models.Batch, skill Skill) models.Response {
	start := time.Now()
	slots := make([]*models.OutputRecord, len(batch.Values))

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, rec := range batch.Values {
		i, rec := i, rec
		g.Go(func() error {
			slots[i] = p.processRecord(skill, rec)
			return nil
		})
	}
	_ = g.Wait()

	resp := models.Response{Values: make([]models.OutputRecord, 0, len(slots))}
	failed := 0
	for _, out := range slots {
		if out == nil {
			continue
		}
		if out.Failed() {
			failed++
		}
		resp.Values = append(resp.Values, *out)
	}

	elapsed := time.Since(start)
	p.metrics.BatchDuration.WithLabelValues(skill.Name()).Observe(elapsed.Seconds())
	p.logger.Info("Batch processed",
		zap.String("skill", skill.Name()),
		zap.Int("records_in", len(batch.Values)),
		zap.Int("records_out", len(resp.Values)),
		zap.Int("records_failed", failed),
		zap.Duration("duration", elapsed))
	return resp
}

func (p *BatchProcessor) processRecord(skill Skill, rec models.Record) *models.OutputRecord {
	if !rec.HasID() {
		p.count(skill, OutcomeDropped)
		return nil
	}

	if msg := validate(rec, skill.RequiredFields()); msg != "" {
		p.count(skill, OutcomeValidationError)
		return &models.OutputRecord{
			RecordID: rec.RecordID,
			Data:     map[string]any{},
			Errors:   []models.Message{{Message: msg}},
		}
	}

	value, err := transform(skill, rec)
	if err != nil {
		// Ursache nur ins Log, nie in die Antwort
		p.count(skill, OutcomeProcessingError)
		p.logger.Warn("Record processing failed",
			zap.String("skill", skill.Name()),
			zap.ByteString("record_id", rec.RecordID),
			zap.Error(err))
		return &models.OutputRecord{
			RecordID: rec.RecordID,
			Errors:   []models.Message{{Message: MsgCouldNotComplete}},
		}
	}

	p.count(skill, OutcomeSuccess)
	return &models.OutputRecord{
		RecordID: rec.RecordID,
		Data:     map[string]any{"text": value},
	}
}

func (p *BatchProcessor) count(skill Skill, outcome string) {
	p.metrics.Records.WithLabelValues(skill.Name(), outcome).Inc()
}

// validate gibt die Meldung zum ersten fehlenden Pflichtfeld zurück, sonst "".
func validate(rec models.Record, required []string) string {
	if rec.Data == nil {
		return MsgDataRequired
	}
	for _, name := range required {
		if _, ok := rec.Field(name); !ok {
			return fmt.Sprintf(MsgFieldRequiredFmt, name)
		}
	}
	return ""
}

// transform ruft den Skill auf und macht aus einem Panic einen Fehler.
func transform(skill Skill, rec models.Record) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", skill.Name(), r)
		}
	}()
	return skill.Transform(rec)
}
