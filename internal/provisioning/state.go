package provisioning

import (
	"sync"

	"github.com/imamik/storagelab/internal/platform/aws"
)

// QueryReport is the result of one finished statement.
type QueryReport struct {
	Name      string
	Execution *aws.QueryExecution
	Rows      [][]string
}

// State holds the shared results of workflow phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results. Phases running in
// parallel must go through the setters.
type State struct {
	mu sync.Mutex

	// Compute results
	Instance *aws.Instance
	PublicIP string

	// Storage results
	Volume      *aws.Volume
	Device      string // device name the volume was attached as
	FileSystem  *aws.FileSystem
	MountTarget *aws.MountTarget
	Mounted     map[string]string // mount point -> probe file contents read back

	// Object results
	Uploaded []string // object keys

	// Query results
	Queries []QueryReport
}

// NewState creates an empty workflow state.
func NewState() *State {
	return &State{
		Mounted: make(map[string]string),
	}
}

// SetVolume records the attached volume.
func (s *State) SetVolume(v *aws.Volume, device string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Volume = v
	s.Device = device
}

// SetFileSystem records the file system and its mount target.
func (s *State) SetFileSystem(fs *aws.FileSystem, mt *aws.MountTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FileSystem = fs
	s.MountTarget = mt
}

// AddMount records a mounted path and the probe file read back from it.
func (s *State) AddMount(mountPoint, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Mounted[mountPoint] = content
}

// AddUpload records an uploaded object key.
func (s *State) AddUpload(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Uploaded = append(s.Uploaded, key)
}

// AddQuery records a finished statement.
func (s *State) AddQuery(r QueryReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Queries = append(s.Queries, r)
}
