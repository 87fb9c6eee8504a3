package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/arglab/internal/scenario"
	"github.com/san-kum/arglab/internal/sim"
)

// Store persists finished runs under baseDir, one directory per run holding
// metadata.json, trajectory.csv and events.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string    `json:"id"`
	ScenarioID string    `json:"scenario_id"`
	Label      string    `json:"label"`
	Timestamp  time.Time `json:"timestamp"`
	Seed       int64     `json:"seed"`
	Dt         float64   `json:"dt"`
	Duration   float64   `json:"duration"`
	Steps      int       `json:"steps"`
	EventCount int       `json:"event_count"`
	FinalState float64   `json:"final_state"`
	FinalOrder float64   `json:"final_order"`
}

func (s *Store) Save(sc scenario.Scenario, seed int64, tr *sim.Trajectory, events []sim.Event) (string, error) {
	runID := fmt.Sprintf("%s_%d", sc.ID, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		ScenarioID: sc.ID,
		Label:      sc.Label,
		Timestamp:  time.Now(),
		Seed:       seed,
		Dt:         sc.Dt,
		Duration:   sc.Duration,
		Steps:      tr.Len(),
		EventCount: len(events),
		FinalState: tr.FinalState(),
		FinalOrder: tr.OrderParameter[tr.Len()-1],
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	trajFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer trajFile.Close()
	if err := WriteTrajectory(trajFile, tr); err != nil {
		return "", err
	}

	eventsFile, err := os.Create(filepath.Join(runDir, "events.csv"))
	if err != nil {
		return "", err
	}
	defer eventsFile.Close()
	if err := writeEvents(eventsFile, events); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteTrajectory emits the sample table as CSV with the contract columns
// time, accumulator, order_parameter, driver, release.
func WriteTrajectory(out io.Writer, tr *sim.Trajectory) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write(sim.Columns); err != nil {
		return err
	}
	for i := 0; i < tr.Len(); i++ {
		row := []string{
			strconv.FormatFloat(tr.Times[i], 'f', 6, 64),
			strconv.FormatFloat(tr.Accumulator[i], 'f', 6, 64),
			strconv.FormatFloat(tr.OrderParameter[i], 'f', 6, 64),
			strconv.FormatFloat(tr.Driver[i], 'f', 6, 64),
			strconv.Itoa(tr.Release[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeEvents(out io.Writer, events []sim.Event) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{"time", "theta", "reset", "delta_s", "state_before", "state_after"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, ev := range events {
		row := []string{
			strconv.FormatFloat(ev.Time, 'f', 6, 64),
			strconv.FormatFloat(ev.Theta, 'f', 6, 64),
			strconv.FormatFloat(ev.Reset, 'f', 6, 64),
			strconv.FormatFloat(ev.DeltaS, 'f', 6, 64),
			strconv.FormatFloat(ev.StateBefore, 'f', 6, 64),
			strconv.FormatFloat(ev.StateAfter, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (*sim.Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadTrajectory(file)
}

// ReadTrajectory parses a trajectory CSV written by WriteTrajectory.
func ReadTrajectory(in io.Reader) (*sim.Trajectory, error) {
	r := csv.NewReader(in)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("store: empty trajectory file")
	}

	tr := &sim.Trajectory{Member: -1}
	for _, record := range records[1:] {
		if len(record) < 5 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		acc, _ := strconv.ParseFloat(record[1], 64)
		order, _ := strconv.ParseFloat(record[2], 64)
		driver, _ := strconv.ParseFloat(record[3], 64)
		release, _ := strconv.Atoi(record[4])

		tr.Times = append(tr.Times, t)
		tr.Accumulator = append(tr.Accumulator, acc)
		tr.OrderParameter = append(tr.OrderParameter, order)
		tr.Driver = append(tr.Driver, driver)
		tr.Release = append(tr.Release, release)
	}
	return tr, nil
}
