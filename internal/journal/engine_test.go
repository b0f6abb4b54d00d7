package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/foxseedlab/ahirun/internal/audio"
	"github.com/foxseedlab/ahirun/internal/docstore"
)

type mockStore struct {
	user         *docstore.User
	dailyUpdates []struct {
		lastActive time.Time
		hintID     string
	}
	setHints    map[string]string
	deletedIDs  []string
	logEntries  []docstore.Remark
	recordCount int
	logCount    int
}

func (m *mockStore) GetUser(_ context.Context, userID string) (*docstore.User, error) {
	if m.user == nil || m.user.ID != userID {
		return nil, fmt.Errorf("user %s: %w", userID, docstore.ErrNotFound)
	}
	u := *m.user
	return &u, nil
}

func (m *mockStore) UpdateUserDaily(_ context.Context, _ string, lastActive time.Time, hintID string) error {
	m.dailyUpdates = append(m.dailyUpdates, struct {
		lastActive time.Time
		hintID     string
	}{lastActive, hintID})
	m.user.LastActive = lastActive
	m.user.HintForToday = hintID
	return nil
}

func (m *mockStore) SetHint(_ context.Context, _, hintID, text string) error {
	if m.setHints == nil {
		m.setHints = make(map[string]string)
	}
	m.setHints[hintID] = text
	m.user.Hints[hintID] = text
	return nil
}

func (m *mockStore) DeleteHint(_ context.Context, _, hintID string) error {
	m.deletedIDs = append(m.deletedIDs, hintID)
	delete(m.user.Hints, hintID)
	return nil
}

func (m *mockStore) AddLog(_ context.Context, _ string, r docstore.Remark) (string, error) {
	m.logEntries = append(m.logEntries, r)
	m.logCount++
	return fmt.Sprintf("log-%d", m.logCount), nil
}

func (m *mockStore) AddRecord(_ context.Context, _ string, _ docstore.Remark) (string, error) {
	m.recordCount++
	return fmt.Sprintf("record-%d", m.recordCount), nil
}

func (m *mockStore) UpdateDocument(_ context.Context, _ string, _ map[string]any) error {
	return nil
}

type mockBlobs struct {
	objects  map[string][]byte
	getCalls []string
	putCalls []string
}

func newMockBlobs() *mockBlobs {
	return &mockBlobs{objects: make(map[string][]byte)}
}

func (m *mockBlobs) Get(_ context.Context, path string) ([]byte, error) {
	m.getCalls = append(m.getCalls, path)
	return m.objects[path], nil
}

func (m *mockBlobs) Put(_ context.Context, path string, data []byte, _ string) error {
	m.putCalls = append(m.putCalls, path)
	m.objects[path] = data
	return nil
}

func (m *mockBlobs) Exists(_ context.Context, path string) (bool, error) {
	_, ok := m.objects[path]
	return ok, nil
}

func (m *mockBlobs) PublicURL(path string) string {
	return "https://storage.example/" + path
}

func (m *mockBlobs) StorageURI(path string) string {
	return "gs://bucket/" + path
}

const synthSamplesPerSegment = 4

type mockSynth struct {
	texts []string
	err   error
}

func (m *mockSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.texts = append(m.texts, text)
	return makeTestWAV(1, 44100, 16, synthSamplesPerSegment), nil
}

func testUser() *docstore.User {
	return &docstore.User{
		ID:     "u1",
		Name:   "みさき",
		DuckID: "duck-1",
		Prompts: map[string]map[string]string{
			"hello":         {"p1": "おはよう、[user]さん。"},
			"before_hint":   {"p2": "今日のヒントは"},
			"after_hint":    {"p3": "です。"},
			"start_work":    {"p4": "作業をはじめましょう。"},
			"pause_work":    {"p5": "すこし休みましょう。"},
			"bye":           {"p6": "おつかれさま、[user]さん。"},
			"before_review": {"p7": "今日のヒントは"},
			"after_review":  {"p8": "でしたね。"},
		},
		Hints: map[string]string{
			"h1": "深呼吸をする",
		},
	}
}

func newTestEngine(user *docstore.User) (*Engine, *mockStore, *mockBlobs, *mockSynth) {
	store := &mockStore{user: user}
	blobs := newMockBlobs()
	synth := &mockSynth{}
	e := NewEngine(store, blobs, synth)
	e.now = func() time.Time {
		return time.Date(2024, 3, 14, 9, 0, 0, 0, time.Local)
	}
	return e, store, blobs, synth
}

func TestResolve_StartWorkNewDay(t *testing.T) {
	user := testUser()
	user.LastActive = time.Date(2024, 3, 13, 22, 0, 0, 0, time.Local)
	e, store, _, synth := newTestEngine(user)

	combined, text, err := e.Resolve(context.Background(), EventStartWork, "u1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	n, err := audio.FrameCount(combined)
	if err != nil {
		t.Fatalf("decode combined audio: %v", err)
	}
	if want := 5 * synthSamplesPerSegment; n != want {
		t.Fatalf("combined audio has %d samples, want %d (5 segments)", n, want)
	}

	lines := strings.Split(text, "\n")
	if len(lines) != 3 {
		t.Fatalf("text has %d lines, want 3: %q", len(lines), text)
	}
	if lines[0] != "おはよう、みさきさん。" {
		t.Fatalf("unexpected hello line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "深呼吸をする") {
		t.Fatalf("hint line missing hint text: %q", lines[1])
	}
	if lines[2] != "作業をはじめましょう。" {
		t.Fatalf("unexpected start_work line: %q", lines[2])
	}

	if len(store.dailyUpdates) != 1 {
		t.Fatalf("expected 1 daily update, got %d", len(store.dailyUpdates))
	}
	if store.dailyUpdates[0].hintID != "h1" {
		t.Fatalf("persisted hint id %q, want h1", store.dailyUpdates[0].hintID)
	}
	if len(synth.texts) != 5 {
		t.Fatalf("synthesizer invoked %d times, want 5", len(synth.texts))
	}
	if len(store.logEntries) != 1 || store.logEntries[0].From != docstore.RemarkFromDuck {
		t.Fatalf("expected one duck log entry, got %+v", store.logEntries)
	}
	if store.logEntries[0].Text != text {
		t.Fatalf("duck log text %q does not match resolved text %q", store.logEntries[0].Text, text)
	}
}

func TestResolve_StartWorkSameDay(t *testing.T) {
	user := testUser()
	user.LastActive = time.Date(2024, 3, 14, 8, 0, 0, 0, time.Local)
	user.HintForToday = "h1"
	e, store, _, synth := newTestEngine(user)

	combined, text, err := e.Resolve(context.Background(), EventStartWork, "u1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	n, err := audio.FrameCount(combined)
	if err != nil {
		t.Fatalf("decode combined audio: %v", err)
	}
	if n != synthSamplesPerSegment {
		t.Fatalf("combined audio has %d samples, want %d (1 segment)", n, synthSamplesPerSegment)
	}
	if text != "作業をはじめましょう。" {
		t.Fatalf("unexpected text: %q", text)
	}
	if len(store.dailyUpdates) != 0 {
		t.Fatalf("expected no daily update on repeat call, got %d", len(store.dailyUpdates))
	}
	if len(synth.texts) != 1 {
		t.Fatalf("synthesizer invoked %d times, want 1", len(synth.texts))
	}
}

func TestResolve_PauseWork(t *testing.T) {
	user := testUser()
	user.LastActive = time.Date(2024, 3, 14, 8, 0, 0, 0, time.Local)
	e, store, _, _ := newTestEngine(user)

	combined, text, err := e.Resolve(context.Background(), EventPauseWork, "u1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	n, err := audio.FrameCount(combined)
	if err != nil {
		t.Fatalf("decode combined audio: %v", err)
	}
	if n != synthSamplesPerSegment {
		t.Fatalf("combined audio has %d samples, want %d", n, synthSamplesPerSegment)
	}
	if text != "すこし休みましょう。" {
		t.Fatalf("unexpected text: %q", text)
	}
	if len(store.dailyUpdates) != 0 {
		t.Fatalf("pause_work must not touch daily state, got %d updates", len(store.dailyUpdates))
	}
}

func TestResolve_StartReview(t *testing.T) {
	user := testUser()
	user.LastActive = time.Date(2024, 3, 14, 8, 0, 0, 0, time.Local)
	user.HintForToday = "h1"
	e, _, _, _ := newTestEngine(user)

	combined, text, err := e.Resolve(context.Background(), EventStartReview, "u1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	n, err := audio.FrameCount(combined)
	if err != nil {
		t.Fatalf("decode combined audio: %v", err)
	}
	if want := 4 * synthSamplesPerSegment; n != want {
		t.Fatalf("combined audio has %d samples, want %d (4 segments)", n, want)
	}
	if !strings.Contains(text, "\"深呼吸をする\"") {
		t.Fatalf("review text missing quoted hint: %q", text)
	}
}

func TestResolve_CacheOrSynthesize(t *testing.T) {
	user := testUser()
	user.LastActive = time.Date(2024, 3, 14, 8, 0, 0, 0, time.Local)
	e, _, blobs, synth := newTestEngine(user)

	if _, _, err := e.Resolve(context.Background(), EventPauseWork, "u1"); err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	if len(synth.texts) != 1 {
		t.Fatalf("first call: synthesizer invoked %d times, want 1", len(synth.texts))
	}
	path := "prompts/u1/p5.wav"
	if _, ok := blobs.objects[path]; !ok {
		t.Fatalf("synthesized audio not cached at %s; cached paths: %v", path, blobs.putCalls)
	}

	if _, _, err := e.Resolve(context.Background(), EventPauseWork, "u1"); err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if len(synth.texts) != 1 {
		t.Fatalf("second call must reuse cache; synthesizer invoked %d times", len(synth.texts))
	}
}

func TestResolve_DanglingHintForTodayIsRepicked(t *testing.T) {
	user := testUser()
	user.LastActive = time.Date(2024, 3, 14, 8, 0, 0, 0, time.Local)
	user.HintForToday = "gone"
	e, store, _, _ := newTestEngine(user)

	if _, _, err := e.Resolve(context.Background(), EventStartReview, "u1"); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(store.dailyUpdates) != 1 || store.dailyUpdates[0].hintID != "h1" {
		t.Fatalf("expected dangling hint to be repicked and persisted, got %+v", store.dailyUpdates)
	}
}

func TestResolve_MissingTag(t *testing.T) {
	user := testUser()
	delete(user.Prompts, "pause_work")
	e, _, _, _ := newTestEngine(user)

	if _, _, err := e.Resolve(context.Background(), EventPauseWork, "u1"); !errors.Is(err, ErrMissingTag) {
		t.Fatalf("expected ErrMissingTag, got %v", err)
	}
}

func TestResolve_MalformedTemplateEntry(t *testing.T) {
	user := testUser()
	user.Prompts["pause_work"] = map[string]string{"p5": "a", "p5b": "b"}
	e, _, _, _ := newTestEngine(user)

	if _, _, err := e.Resolve(context.Background(), EventPauseWork, "u1"); err == nil {
		t.Fatal("expected error for multi-entry tag config")
	}
}

func TestResolve_UnknownUser(t *testing.T) {
	e, _, _, _ := newTestEngine(testUser())
	if _, _, err := e.Resolve(context.Background(), EventPauseWork, "nobody"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_NoHintsConfigured(t *testing.T) {
	user := testUser()
	user.Hints = map[string]string{}
	user.LastActive = time.Time{}
	e, _, _, _ := newTestEngine(user)

	if _, _, err := e.Resolve(context.Background(), EventStartWork, "u1"); !errors.Is(err, ErrNoHints) {
		t.Fatalf("expected ErrNoHints, got %v", err)
	}
}

func TestCreateHint(t *testing.T) {
	user := testUser()
	e, store, blobs, synth := newTestEngine(user)

	hintID, err := e.CreateHint(context.Background(), "u1", "water the plants")
	if err != nil {
		t.Fatalf("create hint failed: %v", err)
	}
	if _, ok := store.setHints[hintID]; !ok {
		t.Fatalf("hint %s not stored on user document", hintID)
	}
	if user.Hints[hintID] != "water the plants" {
		t.Fatalf("hint text not present in mapping: %v", user.Hints)
	}
	path := "hints/u1/" + hintID + ".wav"
	if _, ok := blobs.objects[path]; !ok {
		t.Fatalf("hint audio not stored at %s", path)
	}
	if len(synth.texts) != 1 || synth.texts[0] != "water the plants" {
		t.Fatalf("unexpected synthesis calls: %v", synth.texts)
	}
}

func TestDeleteHint_LeavesOthersUntouched(t *testing.T) {
	user := testUser()
	user.Hints["h2"] = "stretch"
	e, store, _, _ := newTestEngine(user)

	if err := e.DeleteHint(context.Background(), "u1", "h1"); err != nil {
		t.Fatalf("delete hint failed: %v", err)
	}
	if len(store.deletedIDs) != 1 || store.deletedIDs[0] != "h1" {
		t.Fatalf("unexpected deletions: %v", store.deletedIDs)
	}
	if _, ok := user.Hints["h1"]; ok {
		t.Fatal("h1 still present after delete")
	}
	if user.Hints["h2"] != "stretch" {
		t.Fatal("unrelated hint h2 was touched")
	}
}

func TestSyncRecording(t *testing.T) {
	user := testUser()
	e, store, blobs, _ := newTestEngine(user)

	wavData := makeTestWAV(1, 44100, 16, 8)
	recordID, err := e.SyncRecording(context.Background(), "u1", "duck-1", wavData)
	if err != nil {
		t.Fatalf("sync recording failed: %v", err)
	}
	if store.recordCount != 1 {
		t.Fatalf("expected 1 record document, got %d", store.recordCount)
	}
	path := "records/u1/" + recordID + ".wav"
	if _, ok := blobs.objects[path]; !ok {
		t.Fatalf("recording audio not stored at %s", path)
	}
}

func TestAddPromptLog(t *testing.T) {
	user := testUser()
	e, store, _, _ := newTestEngine(user)

	if _, err := e.AddPromptLog(context.Background(), "u1", "duck-1", "明日の計画"); err != nil {
		t.Fatalf("add prompt log failed: %v", err)
	}
	if len(store.logEntries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(store.logEntries))
	}
	got := store.logEntries[0]
	if got.From != docstore.RemarkFromUser || got.Text != "明日の計画" {
		t.Fatalf("unexpected log entry: %+v", got)
	}
}
