package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"skill-hand/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestProcessor(t *testing.T, workers int) (*BatchProcessor, *Metrics, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	metrics := NewMetrics(prometheus.NewRegistry())
	return NewBatchProcessor(workers, metrics, zap.New(core)), metrics, logs
}

func mustParseBatch(t *testing.T, body string) *models.Batch {
	t.Helper()
	batch, err := models.ParseBatch([]byte(body))
	require.NoError(t, err)
	return batch
}

func TestBatchProcessor_FaultIsolation(t *testing.T) {
	processor, metrics, _ := newTestProcessor(t, 2)
	batch := mustParseBatch(t, `{"values":[
		{"recordId":"1","data":{"text":"Hello, World"}},
		{"recordId":"2","data":{"other":"x"}},
		{"recordId":"3","data":{"text":"Olá, mundo!"}}
	]}`)

	resp := processor.Process(batch, NewStringsCleanerSkill())

	require.Len(t, resp.Values, 3)
	assert.Equal(t, `"1"`, string(resp.Values[0].RecordID))
	assert.Equal(t, map[string]any{"text": "Hello World"}, resp.Values[0].Data)
	assert.Empty(t, resp.Values[0].Errors)

	assert.Equal(t, `"2"`, string(resp.Values[1].RecordID))
	assert.Equal(t, map[string]any{}, resp.Values[1].Data)
	assert.Equal(t, []models.Message{{Message: "Error:'text' field is required in 'data' object."}}, resp.Values[1].Errors)

	assert.Equal(t, `"3"`, string(resp.Values[2].RecordID))
	assert.Equal(t, map[string]any{"text": "Olá mundo"}, resp.Values[2].Data)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Records.WithLabelValues("strings-cleaner", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Records.WithLabelValues("strings-cleaner", OutcomeValidationError)))
}

func TestBatchProcessor_DropsRecordsWithoutID(t *testing.T) {
	processor, metrics, _ := newTestProcessor(t, 4)
	batch := mustParseBatch(t, `{"values":[
		{"data":{"text":"no id"}},
		{"recordId":null,"data":{"text":"null id"}},
		"not an object",
		{"recordId":7,"data":{"text":"kept"}}
	]}`)

	resp := processor.Process(batch, NewStringsCleanerSkill())

	require.Len(t, resp.Values, 1)
	assert.Equal(t, `7`, string(resp.Values[0].RecordID))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Records.WithLabelValues("strings-cleaner", OutcomeDropped)))
}

func TestBatchProcessor_DataValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "data missing", body: `{"values":[{"recordId":"a"}]}`, want: MsgDataRequired},
		{name: "data not an object", body: `{"values":[{"recordId":"a","data":"text"}]}`, want: MsgDataRequired},
		{name: "empty data", body: `{"values":[{"recordId":"a","data":{}}]}`, want: "Error:'text' field is required in 'data' object."},
		{name: "null field", body: `{"values":[{"recordId":"a","data":{"text":null}}]}`, want: "Error:'text' field is required in 'data' object."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor, _, _ := newTestProcessor(t, 1)
			resp := processor.Process(mustParseBatch(t, tt.body), NewStringsCleanerSkill())

			require.Len(t, resp.Values, 1)
			assert.Equal(t, map[string]any{}, resp.Values[0].Data)
			assert.Equal(t, []models.Message{{Message: tt.want}}, resp.Values[0].Errors)
		})
	}
}

func TestBatchProcessor_ReportsFirstMissingField(t *testing.T) {
	processor, _, _ := newTestProcessor(t, 1)
	resp := processor.Process(mustParseBatch(t, `{"values":[{"recordId":"m","data":{}}]}`), NewStringsMergerSkill())

	require.Len(t, resp.Values, 1)
	assert.Equal(t, []models.Message{{Message: "Error:'string1' field is required in 'data' object."}}, resp.Values[0].Errors)
}

func TestBatchProcessor_ProcessingErrorHidesCause(t *testing.T) {
	processor, metrics, logs := newTestProcessor(t, 1)
	failing := skillFunc{
		name:     "failing",
		required: []string{"text"},
		transform: func(models.Record) (any, error) {
			return nil, errors.New("backend exploded")
		},
	}

	resp := processor.Process(mustParseBatch(t, `{"values":[{"recordId":"x","data":{"text":"t"}}]}`), failing)

	require.Len(t, resp.Values, 1)
	assert.Nil(t, resp.Values[0].Data)
	assert.Equal(t, []models.Message{{Message: MsgCouldNotComplete}}, resp.Values[0].Errors)

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "backend exploded")
	assert.JSONEq(t, `{"values":[{"recordId":"x","errors":[{"message":"Could not complete operation for record."}]}]}`, string(out))

	entries := logs.FilterMessage("Record processing failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "backend exploded", entries[0].ContextMap()["error"])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Records.WithLabelValues("failing", OutcomeProcessingError)))
}

func TestBatchProcessor_RecoversPanic(t *testing.T) {
	processor, _, logs := newTestProcessor(t, 2)
	panicking := skillFunc{
		name:     "panicking",
		required: []string{"text"},
		transform: func(rec models.Record) (any, error) {
			if string(rec.RecordID) == `"boom"` {
				panic("index out of range")
			}
			return "ok", nil
		},
	}

	resp := processor.Process(mustParseBatch(t, `{"values":[
		{"recordId":"boom","data":{"text":"t"}},
		{"recordId":"fine","data":{"text":"t"}}
	]}`), panicking)

	require.Len(t, resp.Values, 2)
	assert.Equal(t, []models.Message{{Message: MsgCouldNotComplete}}, resp.Values[0].Errors)
	assert.Equal(t, map[string]any{"text": "ok"}, resp.Values[1].Data)

	entries := logs.FilterMessage("Record processing failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "index out of range")
}

func TestBatchProcessor_PreservesOrder(t *testing.T) {
	processor, _, _ := newTestProcessor(t, 8)

	var sb strings.Builder
	sb.WriteString(`{"values":[`)
	for i := 0; i < 200; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"recordId":%d,"data":{"text":"word-%d"}}`, i, i)
	}
	sb.WriteString(`]}`)

	resp := processor.Process(mustParseBatch(t, sb.String()), NewStringsCleanerSkill())

	require.Len(t, resp.Values, 200)
	for i, out := range resp.Values {
		assert.Equal(t, fmt.Sprint(i), string(out.RecordID))
		assert.Equal(t, map[string]any{"text": fmt.Sprintf("word %d", i)}, out.Data)
	}
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	processor, _, logs := newTestProcessor(t, 1)
	resp := processor.Process(mustParseBatch(t, `{"values":[]}`), NewStringsCleanerSkill())

	assert.NotNil(t, resp.Values)
	assert.Empty(t, resp.Values)
	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"values":[]}`, string(out))
	assert.Equal(t, 1, logs.FilterMessage("Batch processed").Len())
}
