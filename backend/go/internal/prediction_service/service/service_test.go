package service

import (
	"KneeHeal/backend/go/internal/advice"
	"KneeHeal/backend/go/internal/models"
	"KneeHeal/backend/go/pkg/logger"
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const dataPath = "user_001/data"

type update struct {
	path, key string
	fields    map[string]interface{}
}

// memoryStore 是按键排序的内存版 RecordStore。
type memoryStore struct {
	records   map[string]models.Record
	updates   []update
	fetchErr  error
	updateErr error
}

func newMemoryStore(records map[string]models.Record) *memoryStore {
	if records == nil {
		records = map[string]models.Record{}
	}
	return &memoryStore{records: records}
}

func (m *memoryStore) sortedKeys() []string {
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *memoryStore) FetchLatest(ctx context.Context, path string) (*models.KeyedRecord, error) {
	recent, err := m.ListRecent(ctx, path, 1)
	if err != nil || len(recent) == 0 {
		return nil, err
	}
	return &recent[0], nil
}

func (m *memoryStore) ListRecent(_ context.Context, path string, limit int) ([]models.KeyedRecord, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	keys := m.sortedKeys()
	if len(keys) > limit {
		keys = keys[len(keys)-limit:]
	}
	out := make([]models.KeyedRecord, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.KeyedRecord{Key: k, Record: m.records[k]})
	}
	return out, nil
}

func (m *memoryStore) Update(_ context.Context, path, key string, fields map[string]interface{}) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, update{path: path, key: key, fields: fields})
	rec := m.records[key]
	if v, ok := fields["predicted_angle"].(float64); ok {
		rec.PredictedAngle = &v
	}
	if v, ok := fields["suggestions"].([]string); ok {
		rec.Suggestions = v
	}
	m.records[key] = rec
	return nil
}

// stubPredictor 返回固定角度并记录收到的特征。
type stubPredictor struct {
	angle float64
	err   error
	seen  []models.FeatureVector
}

func (p *stubPredictor) Predict(_ context.Context, f models.FeatureVector) (float64, error) {
	p.seen = append(p.seen, f)
	return p.angle, p.err
}

type recordingSink struct {
	name   string
	events []*models.PredictionEvent
	err    error
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Record(_ context.Context, ev *models.PredictionEvent) error {
	s.events = append(s.events, ev)
	return s.err
}

func newTestService(st *memoryStore, p *stubPredictor, sinks ...AnnotationSink) (*Service, *test.Hook) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	return NewService(st, p, "user_001", dataPath, logger.NewWithBase(base, "predict_job", "", "user_001"), sinks...), hook
}

func fullRecord() models.Record {
	return models.Record{
		MPU1: models.SensorSample{"acc_x": 1.0, "acc_y": 2.0, "acc_z": 3.0, "gyro_x": 0.1, "gyro_y": 0.2, "gyro_z": 0.3},
		MPU2: models.SensorSample{"acc_x": 4.0, "acc_y": 5.0, "acc_z": 6.0, "gyro_x": 0.4, "gyro_y": 0.5, "gyro_z": 0.6},
	}
}

func TestRunOnce_AnnotatesLatestRecord(t *testing.T) {
	st := newMemoryStore(map[string]models.Record{
		"1718000001": fullRecord(),
		"1718000002": fullRecord(),
	})
	p := &stubPredictor{angle: 45.0}
	sink := &recordingSink{name: "test"}
	svc, hook := newTestService(st, p, sink)

	out, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	wantVec := models.FeatureVector{1, 2, 3, 0.1, 0.2, 0.3, 4, 5, 6, 0.4, 0.5, 0.6}
	if len(p.seen) != 1 || p.seen[0] != wantVec {
		t.Fatalf("predictor saw %v, want %v", p.seen, wantVec)
	}
	if len(st.updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(st.updates))
	}
	u := st.updates[0]
	if u.path != dataPath || u.key != "1718000002" {
		t.Errorf("update target = %s/%s", u.path, u.key)
	}
	if len(u.fields) != 2 || u.fields["predicted_angle"] != 45.0 {
		t.Errorf("fields = %v", u.fields)
	}
	if s := u.fields["suggestions"].([]string); len(s) != 1 || s[0] != advice.InTargetBand {
		t.Errorf("suggestions = %v", s)
	}
	if out.Key != "1718000002" || out.Skipped || out.Annotation == nil || out.Annotation.PredictedAngle != 45.0 {
		t.Errorf("outcome = %+v", out)
	}

	if len(sink.events) != 1 || sink.events[0].RecordKey != "1718000002" || sink.events[0].UserID != "user_001" {
		t.Errorf("sink events = %+v", sink.events)
	}

	last := hook.LastEntry()
	if last == nil || last.Message != "Prediction and suggestions updated in Firebase (timestamp 1718000002)." {
		t.Errorf("last log = %+v", last)
	}
}

func TestRunOnce_PartialFieldsDefaultToZero(t *testing.T) {
	st := newMemoryStore(map[string]models.Record{
		"k1": {MPU1: models.SensorSample{"acc_x": 9.0}, MPU2: models.SensorSample{"gyro_z": -1.0}},
	})
	p := &stubPredictor{angle: 10}
	svc, _ := newTestService(st, p)

	if _, err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	want := models.FeatureVector{9, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, -1}
	if p.seen[0] != want {
		t.Errorf("vector = %v, want %v", p.seen[0], want)
	}
	if len(st.updates) != 1 || st.updates[0].fields["suggestions"].([]string)[0] != advice.TooLow {
		t.Errorf("updates = %+v", st.updates)
	}
}

func TestRunOnce_SkipsIncompleteRecord(t *testing.T) {
	cases := map[string]models.Record{
		"mpu1 empty":   {MPU1: models.SensorSample{}, MPU2: models.SensorSample{"acc_x": 1.0}},
		"mpu1 missing": {MPU2: models.SensorSample{"acc_x": 1.0}},
		"mpu2 missing": {MPU1: models.SensorSample{"acc_x": 1.0}},
		"both missing": {},
	}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			st := newMemoryStore(map[string]models.Record{"k": rec})
			p := &stubPredictor{angle: 50}
			sink := &recordingSink{name: "test"}
			svc, hook := newTestService(st, p, sink)

			out, err := svc.RunOnce(context.Background())
			if err != nil {
				t.Fatalf("RunOnce() error = %v", err)
			}
			if !out.Skipped || out.Key != "k" {
				t.Errorf("outcome = %+v", out)
			}
			if len(st.updates) != 0 || len(p.seen) != 0 || len(sink.events) != 0 {
				t.Errorf("updates = %d, predictions = %d, events = %d", len(st.updates), len(p.seen), len(sink.events))
			}
			if last := hook.LastEntry(); last == nil || last.Message != "Missing mpu1 or mpu2 data. Skipping." {
				t.Errorf("last log = %+v", last)
			}
		})
	}
}

func TestRunOnce_OnlyLatestIsConsidered(t *testing.T) {
	st := newMemoryStore(map[string]models.Record{
		"1718000001": fullRecord(),
		"1718000009": {MPU1: models.SensorSample{}},
	})
	svc, _ := newTestService(st, &stubPredictor{angle: 50})

	out, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if !out.Skipped || len(st.updates) != 0 {
		t.Errorf("outcome = %+v, updates = %v", out, st.updates)
	}
}

func TestRunOnce_EmptyPath(t *testing.T) {
	st := newMemoryStore(nil)
	p := &stubPredictor{}
	svc, _ := newTestService(st, p)

	out, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if out.Key != "" || out.Skipped || out.Annotation != nil {
		t.Errorf("outcome = %+v", out)
	}
	if len(p.seen) != 0 || len(st.updates) != 0 {
		t.Error("empty path must not predict or write")
	}
}

func TestRunOnce_SuggestionBoundaries(t *testing.T) {
	cases := []struct {
		angle float64
		want  string
	}{
		{30.0, advice.InTargetBand},
		{100.0, advice.InTargetBand},
		{100.5, advice.TooHigh},
		{29.5, advice.TooLow},
	}
	for _, tc := range cases {
		st := newMemoryStore(map[string]models.Record{"k": fullRecord()})
		svc, _ := newTestService(st, &stubPredictor{angle: tc.angle})
		if _, err := svc.RunOnce(context.Background()); err != nil {
			t.Fatalf("angle %v: %v", tc.angle, err)
		}
		got := st.updates[0].fields["suggestions"].([]string)
		if len(got) != 1 || got[0] != tc.want {
			t.Errorf("angle %v: suggestions = %v, want [%q]", tc.angle, got, tc.want)
		}
	}
}

func TestRunOnce_FailuresPropagate(t *testing.T) {
	boom := errors.New("boom")

	t.Run("fetch", func(t *testing.T) {
		st := newMemoryStore(nil)
		st.fetchErr = boom
		svc, _ := newTestService(st, &stubPredictor{})
		if _, err := svc.RunOnce(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("predict", func(t *testing.T) {
		st := newMemoryStore(map[string]models.Record{"k": fullRecord()})
		svc, _ := newTestService(st, &stubPredictor{err: boom})
		if _, err := svc.RunOnce(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("err = %v", err)
		}
		if len(st.updates) != 0 {
			t.Error("failed prediction must not write")
		}
	})

	t.Run("malformed field", func(t *testing.T) {
		rec := fullRecord()
		rec.MPU2["gyro_x"] = "n/a"
		st := newMemoryStore(map[string]models.Record{"k": rec})
		svc, _ := newTestService(st, &stubPredictor{})
		if _, err := svc.RunOnce(context.Background()); !errors.Is(err, models.ErrMalformedField) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		st := newMemoryStore(map[string]models.Record{"k": fullRecord()})
		st.updateErr = boom
		sink := &recordingSink{name: "test"}
		svc, _ := newTestService(st, &stubPredictor{angle: 40}, sink)
		if _, err := svc.RunOnce(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("err = %v", err)
		}
		if len(sink.events) != 0 {
			t.Error("sinks must not run when the write fails")
		}
	})

	t.Run("sink", func(t *testing.T) {
		st := newMemoryStore(map[string]models.Record{"k": fullRecord()})
		first := &recordingSink{name: "kafka", err: boom}
		second := &recordingSink{name: "mongodb"}
		svc, _ := newTestService(st, &stubPredictor{angle: 40}, first, second)
		_, err := svc.RunOnce(context.Background())
		if !errors.Is(err, boom) || !strings.Contains(err.Error(), "kafka") {
			t.Fatalf("err = %v", err)
		}
		if len(st.updates) != 1 || len(second.events) != 0 {
			t.Errorf("updates = %d, second sink events = %d", len(st.updates), len(second.events))
		}
	})
}

func TestHistory_OnlyAnnotatedRecords(t *testing.T) {
	angle := 55.0
	st := newMemoryStore(map[string]models.Record{
		"1": {PredictedAngle: &angle, Suggestions: []string{advice.InTargetBand}},
		"2": fullRecord(),
		"3": {PredictedAngle: &angle},
		"4": {PredictedAngle: &angle},
	})
	svc, _ := newTestService(st, &stubPredictor{})

	got, err := svc.History(context.Background(), 3)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(got) != 2 || got[0].Key != "3" || got[1].Key != "4" {
		t.Errorf("history = %+v", got)
	}

	if _, err := svc.History(context.Background(), 0); err == nil {
		t.Error("zero limit: expected error")
	}
}
