package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	seriesFile    = "series.csv"
	particlesFile = "particles.csv"
)

var (
	seriesHeader   = []string{"time", "kinetic", "momentum_x", "momentum_y", "contacts", "boundary_hits"}
	particleHeader = []string{"x", "y", "vx", "vy", "radius", "mass"}
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type WorldInfo struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Gravity  float64 `json:"gravity"`
	Friction float64 `json:"friction"`
	CellSize float64 `json:"cell_size"`
	Falloff  string  `json:"falloff"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Count     int                `json:"count"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Contacts  int                `json:"contacts"`
	World     WorldInfo          `json:"world"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes metadata, the sample series and the final frame. ID and
// Timestamp are filled in when empty.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = now
	}
	if meta.ID == "" {
		name := meta.Preset
		if name == "" {
			name = "run"
		}
		meta.ID = fmt.Sprintf("%s_%d", name, now.UnixNano())
	}
	meta.Steps = result.StepsTaken
	meta.Contacts = result.Contacts
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, seriesFile), func(w io.Writer) error {
		return WriteSeries(w, result.Samples)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, particlesFile), func(w io.Writer) error {
		return WriteParticles(w, result.Final)
	}); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSeries(runID string) ([]sim.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSeries(f)
}

func (s *Store) LoadParticles(runID string) ([]physics.Particle, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, particlesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadParticles(f)
}

func WriteSeries(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(seriesHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			formatFloat(s.Time),
			formatFloat(s.Kinetic),
			formatFloat(s.MomentumX),
			formatFloat(s.MomentumY),
			strconv.Itoa(s.Contacts),
			strconv.Itoa(s.BoundaryHits),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadSeries(r io.Reader) ([]sim.Sample, error) {
	records, err := readRecords(r, len(seriesHeader))
	if err != nil {
		return nil, err
	}

	samples := make([]sim.Sample, 0, len(records))
	for i, rec := range records {
		var f [4]float64
		for j := range f {
			if f[j], err = strconv.ParseFloat(rec[j], 64); err != nil {
				return nil, fmt.Errorf("series row %d: %w", i+1, err)
			}
		}
		contacts, err := strconv.Atoi(rec[4])
		if err != nil {
			return nil, fmt.Errorf("series row %d: %w", i+1, err)
		}
		hits, err := strconv.Atoi(rec[5])
		if err != nil {
			return nil, fmt.Errorf("series row %d: %w", i+1, err)
		}
		samples = append(samples, sim.Sample{
			Time: f[0], Kinetic: f[1], MomentumX: f[2], MomentumY: f[3],
			Contacts: contacts, BoundaryHits: hits,
		})
	}
	return samples, nil
}

func WriteParticles(w io.Writer, ps []physics.Particle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(particleHeader); err != nil {
		return err
	}
	for i := range ps {
		p := &ps[i]
		row := []string{
			formatFloat(p.Pos.X), formatFloat(p.Pos.Y),
			formatFloat(p.Vel.X), formatFloat(p.Vel.Y),
			formatFloat(p.Radius), formatFloat(p.Mass),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadParticles(r io.Reader) ([]physics.Particle, error) {
	records, err := readRecords(r, len(particleHeader))
	if err != nil {
		return nil, err
	}

	ps := make([]physics.Particle, 0, len(records))
	for i, rec := range records {
		var f [6]float64
		for j := range f {
			if f[j], err = strconv.ParseFloat(rec[j], 64); err != nil {
				return nil, fmt.Errorf("particle row %d: %w", i+1, err)
			}
		}
		ps = append(ps, physics.NewParticle(f[0], f[1], f[2], f[3], f[4], f[5]))
	}
	return ps, nil
}

// readRecords returns the rows after the header.
func readRecords(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

// 'g' with -1 precision round-trips exactly.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
