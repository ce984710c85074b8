// Package lifecycletest provides an in-memory lifecycle.Store for tests.
package lifecycletest

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"agency-backend/internal/lifecycle"
	"agency-backend/internal/models"
)

// ErrInjected is returned by the Tx method named in FailOn.
var ErrInjected = errors.New("injected store failure")

type state struct {
	estimates map[uuid.UUID]models.Estimate
	projects  map[uuid.UUID]models.Project
	orders    map[uuid.UUID]models.Order
}

func (s state) clone() state {
	out := state{
		estimates: make(map[uuid.UUID]models.Estimate, len(s.estimates)),
		projects:  make(map[uuid.UUID]models.Project, len(s.projects)),
		orders:    make(map[uuid.UUID]models.Order, len(s.orders)),
	}
	for k, v := range s.estimates {
		out.estimates[k] = copyEstimate(v)
	}
	for k, v := range s.projects {
		out.projects[k] = copyProject(v)
	}
	for k, v := range s.orders {
		out.orders[k] = v
	}
	return out
}

// MemStore runs transactions one at a time against a copy of its state and swaps the
// copy in on success. A failed or panicking transaction leaves the state untouched.
type MemStore struct {
	mu     sync.Mutex
	data   state
	failOn map[string]bool
	now    func() time.Time
	txs    int
}

var _ lifecycle.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		data: state{
			estimates: map[uuid.UUID]models.Estimate{},
			projects:  map[uuid.UUID]models.Project{},
			orders:    map[uuid.UUID]models.Order{},
		},
		failOn: map[string]bool{},
		now:    time.Now,
	}
}

// FailOn makes every call to the named Tx method return ErrInjected.
func (s *MemStore) FailOn(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[method] = true
}

func (s *MemStore) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn = map[string]bool{}
}

// Transactions reports how many transactions were opened.
func (s *MemStore) Transactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txs
}

func (s *MemStore) WithTx(ctx context.Context, fn func(tx lifecycle.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs++

	tx := &memTx{data: s.data.clone(), failOn: s.failOn, now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

func (s *MemStore) PutEstimate(e models.Estimate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.estimates[e.ID] = copyEstimate(e)
}

func (s *MemStore) PutProject(p models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.projects[p.ID] = copyProject(p)
}

func (s *MemStore) PutOrder(o models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.orders[o.ID] = o
}

func (s *MemStore) Estimate(id uuid.UUID) (models.Estimate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data.estimates[id]
	return copyEstimate(e), ok
}

func (s *MemStore) Project(id uuid.UUID) (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.projects[id]
	return copyProject(p), ok
}

func (s *MemStore) ProjectByEstimate(estimateID uuid.UUID) (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.data.projects {
		if p.EstimateID.Valid && p.EstimateID.UUID == estimateID {
			return copyProject(p), true
		}
	}
	return models.Project{}, false
}

func (s *MemStore) Order(id uuid.UUID) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.data.orders[id]
	return o, ok
}

// ProjectCount counts projects referencing estimateID.
func (s *MemStore) ProjectCount(estimateID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.data.projects {
		if p.EstimateID.Valid && p.EstimateID.UUID == estimateID {
			n++
		}
	}
	return n
}

type memTx struct {
	data   state
	failOn map[string]bool
	now    func() time.Time
}

func (t *memTx) fail(method string) error {
	if t.failOn[method] {
		return ErrInjected
	}
	return nil
}

func (t *memTx) InsertEstimate(_ context.Context, e *models.Estimate) error {
	if err := t.fail("InsertEstimate"); err != nil {
		return err
	}
	if _, ok := t.data.estimates[e.ID]; ok {
		return errors.New("duplicate estimate id")
	}
	t.data.estimates[e.ID] = copyEstimate(*e)
	return nil
}

func (t *memTx) GetEstimate(_ context.Context, id uuid.UUID) (*models.Estimate, error) {
	if err := t.fail("GetEstimate"); err != nil {
		return nil, err
	}
	e, ok := t.data.estimates[id]
	if !ok {
		return nil, nil
	}
	out := copyEstimate(e)
	return &out, nil
}

func (t *memTx) SetEstimateStatus(_ context.Context, id uuid.UUID, status models.Status) error {
	if err := t.fail("SetEstimateStatus"); err != nil {
		return err
	}
	e, ok := t.data.estimates[id]
	if !ok {
		return errors.New("estimate not found")
	}
	e.Status = status
	e.UpdatedAt = t.now()
	t.data.estimates[id] = e
	return nil
}

func (t *memTx) SetEstimateProof(_ context.Context, id uuid.UUID, proofURL string) error {
	if err := t.fail("SetEstimateProof"); err != nil {
		return err
	}
	e, ok := t.data.estimates[id]
	if !ok {
		return errors.New("estimate not found")
	}
	e.ProofURL.String, e.ProofURL.Valid = proofURL, true
	t.data.estimates[id] = e
	return nil
}

func (t *memTx) UpsertProject(_ context.Context, p *models.Project) (*models.Project, bool, error) {
	if err := t.fail("UpsertProject"); err != nil {
		return nil, false, err
	}
	if p.EstimateID.Valid {
		for _, existing := range t.data.projects {
			if existing.EstimateID.Valid && existing.EstimateID.UUID == p.EstimateID.UUID {
				out := copyProject(existing)
				return &out, false, nil
			}
		}
	}
	stored := copyProject(*p)
	now := t.now()
	stored.CreatedAt, stored.UpdatedAt = now, now
	t.data.projects[stored.ID] = stored
	out := copyProject(stored)
	return &out, true, nil
}

func (t *memTx) GetProject(_ context.Context, id uuid.UUID) (*models.Project, error) {
	if err := t.fail("GetProject"); err != nil {
		return nil, err
	}
	p, ok := t.data.projects[id]
	if !ok {
		return nil, nil
	}
	out := copyProject(p)
	return &out, nil
}

func (t *memTx) GetProjectByEstimate(_ context.Context, estimateID uuid.UUID) (*models.Project, error) {
	if err := t.fail("GetProjectByEstimate"); err != nil {
		return nil, err
	}
	for _, p := range t.data.projects {
		if p.EstimateID.Valid && p.EstimateID.UUID == estimateID {
			out := copyProject(p)
			return &out, nil
		}
	}
	return nil, nil
}

func (t *memTx) ListProjects(_ context.Context, userID uuid.UUID) ([]models.Project, error) {
	if err := t.fail("ListProjects"); err != nil {
		return nil, err
	}
	out := []models.Project{}
	for _, p := range t.data.projects {
		if userID == uuid.Nil || p.UserID == userID {
			out = append(out, copyProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (t *memTx) SetProjectStatus(_ context.Context, id uuid.UUID, status models.Status) error {
	if err := t.fail("SetProjectStatus"); err != nil {
		return err
	}
	p, ok := t.data.projects[id]
	if !ok {
		return errors.New("project not found")
	}
	p.Status = status
	p.UpdatedAt = t.now()
	t.data.projects[id] = p
	return nil
}

func (t *memTx) SetProjectDeveloper(_ context.Context, id uuid.UUID, developerID uuid.NullUUID) error {
	if err := t.fail("SetProjectDeveloper"); err != nil {
		return err
	}
	p, ok := t.data.projects[id]
	if !ok {
		return errors.New("project not found")
	}
	p.DeveloperID = developerID
	t.data.projects[id] = p
	return nil
}

func (t *memTx) AppendProjectFile(_ context.Context, id uuid.UUID, file models.ProjectFile) error {
	if err := t.fail("AppendProjectFile"); err != nil {
		return err
	}
	p, ok := t.data.projects[id]
	if !ok {
		return errors.New("project not found")
	}
	p.Files = append(append([]models.ProjectFile{}, p.Files...), file)
	t.data.projects[id] = p
	return nil
}

func (t *memTx) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if err := t.fail("GetOrder"); err != nil {
		return nil, err
	}
	o, ok := t.data.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (t *memTx) GetOrderByProject(_ context.Context, projectID uuid.UUID) (*models.Order, error) {
	if err := t.fail("GetOrderByProject"); err != nil {
		return nil, err
	}
	for _, o := range t.data.orders {
		if o.ProjectID.Valid && o.ProjectID.UUID == projectID {
			out := o
			return &out, nil
		}
	}
	return nil, nil
}

func (t *memTx) SetOrderStatus(_ context.Context, id uuid.UUID, status models.Status) error {
	if err := t.fail("SetOrderStatus"); err != nil {
		return err
	}
	o, ok := t.data.orders[id]
	if !ok {
		return errors.New("order not found")
	}
	o.Status = status
	o.UpdatedAt = t.now()
	t.data.orders[id] = o
	return nil
}

func (t *memTx) SetOrderProof(_ context.Context, id uuid.UUID, proofURL string) error {
	if err := t.fail("SetOrderProof"); err != nil {
		return err
	}
	o, ok := t.data.orders[id]
	if !ok {
		return errors.New("order not found")
	}
	o.ProofURL.String, o.ProofURL.Valid = proofURL, true
	t.data.orders[id] = o
	return nil
}

func copyEstimate(e models.Estimate) models.Estimate {
	e.Screens = append([]models.LineItem(nil), e.Screens...)
	e.APIs = append([]models.LineItem(nil), e.APIs...)
	return e
}

func copyProject(p models.Project) models.Project {
	p.Spec = append(json.RawMessage(nil), p.Spec...)
	p.Files = append([]models.ProjectFile(nil), p.Files...)
	return p
}
