package usecase

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Dubey-IITB/resume-tracker/internal/model"
	"github.com/Dubey-IITB/resume-tracker/internal/repository"
)

type memCandidates struct {
	mu   sync.Mutex
	rows map[string]model.Candidate
}

func newMemCandidates(cs ...model.Candidate) *memCandidates {
	m := &memCandidates{rows: map[string]model.Candidate{}}
	for _, c := range cs {
		m.rows[c.Email] = c
	}
	return m
}

func (m *memCandidates) Upsert(_ context.Context, c *model.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.rows[c.Email]; ok {
		if c.ResumePath == "" {
			c.ResumePath = old.ResumePath
		}
		if len(c.AdditionalInfo) == 0 {
			c.AdditionalInfo = old.AdditionalInfo
		}
		c.CreatedAt = old.CreatedAt
	}
	m.rows[c.Email] = *c
	return nil
}

func (m *memCandidates) FindByEmail(_ context.Context, email string) (*model.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m *memCandidates) All(context.Context) ([]model.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Candidate, 0, len(m.rows))
	for _, c := range m.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *memCandidates) List(ctx context.Context, offset, limit int) ([]model.Candidate, int64, error) {
	all, _ := m.All(ctx)
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Candidate{}, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

type memJobs struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]model.Job
}

func newMemJobs(jobs ...model.Job) *memJobs {
	m := &memJobs{rows: map[uint]model.Job{}}
	for _, j := range jobs {
		m.rows[j.ID] = j
		m.nextID = max(m.nextID, j.ID)
	}
	return m
}

func (m *memJobs) CreateJob(_ context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	job.ID = m.nextID
	job.CreatedAt = time.Now()
	m.rows[job.ID] = *job
	return nil
}

func (m *memJobs) UpdateJob(_ context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[job.ID] = *job
	return nil
}

func (m *memJobs) FindJobByID(_ context.Context, id uint) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &j, nil
}

func (m *memJobs) GetJobs(_ context.Context, offset, limit int) ([]model.Job, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Job, 0, len(m.rows))
	for _, j := range m.rows {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := int64(len(out))
	if offset >= len(out) {
		return []model.Job{}, total, nil
	}
	return out[offset:min(offset+limit, len(out))], total, nil
}

func (m *memJobs) DeleteJob(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memMatches struct {
	mu         sync.Mutex
	rows       map[uint][]model.CandidateJobMatch
	failInsert error
	replaces   int
}

func newMemMatches() *memMatches {
	return &memMatches{rows: map[uint][]model.CandidateJobMatch{}}
}

func (m *memMatches) ReplaceForJob(_ context.Context, jobID uint, rows []model.CandidateJobMatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaces++
	if m.failInsert != nil {
		return m.failInsert
	}
	now := time.Now()
	stored := make([]model.CandidateJobMatch, len(rows))
	for i := range rows {
		rows[i].CreatedAt = now
		stored[i] = rows[i]
	}
	m.rows[jobID] = stored
	return nil
}

func (m *memMatches) FindByJob(_ context.Context, jobID uint) ([]model.CandidateJobMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.CandidateJobMatch(nil), m.rows[jobID]...), nil
}

func (m *memMatches) UpdateStatus(_ context.Context, jobID uint, email, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows[jobID] {
		if r.CandidateEmail == email {
			m.rows[jobID][i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memMatches) get(jobID uint, email string) (model.CandidateJobMatch, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows[jobID] {
		if r.CandidateEmail == email {
			return r, true
		}
	}
	return model.CandidateJobMatch{}, false
}

type memUsers struct {
	mu   sync.Mutex
	rows map[string]model.User
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[string]model.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = uint(len(m.rows) + 1)
	m.rows[u.Email] = *u
	return nil
}

func (m *memUsers) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

// stubScorer answers JD scores by email and group scores from a fixed map.
type stubScorer struct {
	jd         map[string]float64
	group      map[string]float64
	jdCalls    atomic.Int32
	groupCalls atomic.Int32
}

func (s *stubScorer) ScoreAgainstJob(_ context.Context, c model.Candidate, _ model.Job) float64 {
	s.jdCalls.Add(1)
	if v, ok := s.jd[c.Email]; ok {
		return v
	}
	return 0.5
}

func (s *stubScorer) ScoreGroup(_ context.Context, cs []model.Candidate, _ model.Job) map[string]float64 {
	s.groupCalls.Add(1)
	out := make(map[string]float64, len(cs))
	for _, c := range cs {
		if v, ok := s.group[c.Email]; ok {
			out[c.Email] = v
		}
	}
	return out
}

// stubExtractor maps file contents to text.
type stubExtractor map[string]string

func (s stubExtractor) ExtractText(_ context.Context, data []byte) (string, error) {
	return s[string(data)], nil
}

type stubResumeOracle struct {
	emails   map[string]string
	details  map[string]map[string]any
	analysis map[string]any

	emailCalls    atomic.Int32
	analyzedTexts []string
}

func (o *stubResumeOracle) ExtractEmail(_ context.Context, text string) string {
	o.emailCalls.Add(1)
	return o.emails[text]
}

func (o *stubResumeOracle) AnalyzeResumes(_ context.Context, _ string, resumes []string) map[string]any {
	o.analyzedTexts = append([]string(nil), resumes...)
	if o.analysis == nil {
		return map[string]any{}
	}
	return o.analysis
}

func (o *stubResumeOracle) ExtractDetails(_ context.Context, text string) map[string]any {
	return o.details[text]
}

type memFiles struct {
	mu    sync.Mutex
	saved []string
}

func (f *memFiles) Save(_ context.Context, stem string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := "/uploads/" + stem + ".pdf"
	f.saved = append(f.saved, path)
	return path, nil
}
