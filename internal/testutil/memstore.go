// Package testutil provides an in-memory repository.Store for service and
// handler tests.  It mirrors the MySQL schema's unique keys and cascades,
// and runs transactions one at a time with snapshot rollback.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/golf-scorecard/internal/model"
	"github.com/iliyamo/golf-scorecard/internal/repository"
)

// ErrForeignKey mimics a foreign key violation.
var ErrForeignKey = errors.New("foreign key constraint fails")

type memState struct {
	nextID int64
	rooms  map[int64]model.Room
	users  map[int64]model.User
	holes  map[int64]model.Hole
	scores map[int64]model.Score
}

func newMemState() *memState {
	return &memState{
		rooms:  map[int64]model.Room{},
		users:  map[int64]model.User{},
		holes:  map[int64]model.Hole{},
		scores: map[int64]model.Score{},
	}
}

func (st *memState) clone() *memState {
	out := &memState{
		nextID: st.nextID,
		rooms:  make(map[int64]model.Room, len(st.rooms)),
		users:  make(map[int64]model.User, len(st.users)),
		holes:  make(map[int64]model.Hole, len(st.holes)),
		scores: make(map[int64]model.Score, len(st.scores)),
	}
	for k, v := range st.rooms {
		out.rooms[k] = v
	}
	for k, v := range st.users {
		out.users[k] = v
	}
	for k, v := range st.holes {
		out.holes[k] = v
	}
	for k, v := range st.scores {
		out.scores[k] = v
	}
	return out
}

func (st *memState) id() int64 {
	st.nextID++
	return st.nextID
}

// MemStore implements repository.Store in memory.
type MemStore struct {
	memQueries
	mu sync.Mutex

	hmu    sync.Mutex
	fails  map[string]error
	short  map[string]int64
	before map[string]func()
}

var _ repository.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	m := &MemStore{
		fails:  map[string]error{},
		short:  map[string]int64{},
		before: map[string]func(){},
	}
	m.memQueries = memQueries{
		st:  newMemState(),
		m:   m,
		top: true,
		lock: func() func() {
			m.mu.Lock()
			return m.mu.Unlock
		},
	}
	return m
}

// WithTx runs fn with exclusive access to the store.  When fn fails every
// change it made is discarded.
func (m *MemStore) WithTx(ctx context.Context, fn func(q repository.Queries) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFault("Begin"); err != nil {
		return err
	}
	snap := m.st.clone()
	tx := &memQueries{st: m.st, m: m, lock: func() func() { return func() {} }}
	if err := fn(tx); err != nil {
		*m.st = *snap
		return err
	}
	return nil
}

// FailNext makes the next call of op return err.  op is a Queries method
// name, or "Begin" for WithTx.
func (m *MemStore) FailNext(op string, err error) {
	m.hmu.Lock()
	defer m.hmu.Unlock()
	m.fails[op] = err
}

// UnderReport makes the next call of the bulk operation op (CreateScores,
// ShiftHolesDown) report n fewer affected rows than it actually wrote.
func (m *MemStore) UnderReport(op string, n int64) {
	m.hmu.Lock()
	defer m.hmu.Unlock()
	m.short[op] = n
}

// Before registers fn to run once before the next non-transactional call of
// op.  fn may use the store.
func (m *MemStore) Before(op string, fn func()) {
	m.hmu.Lock()
	defer m.hmu.Unlock()
	m.before[op] = fn
}

// Scores returns every stored score ordered by id.
func (m *MemStore) Scores() []model.Score {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Score, 0, len(m.st.scores))
	for _, s := range m.st.scores {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemStore) takeFault(op string) error {
	m.hmu.Lock()
	defer m.hmu.Unlock()
	if err, ok := m.fails[op]; ok {
		delete(m.fails, op)
		return err
	}
	return nil
}

func (m *MemStore) takeShort(op string) int64 {
	m.hmu.Lock()
	defer m.hmu.Unlock()
	n := m.short[op]
	delete(m.short, op)
	return n
}

func (m *MemStore) takeBefore(op string) func() {
	m.hmu.Lock()
	defer m.hmu.Unlock()
	fn := m.before[op]
	delete(m.before, op)
	return fn
}

type memQueries struct {
	st   *memState
	m    *MemStore
	top  bool
	lock func() func()
}

// enter runs hooks, takes the lock and reports an injected fault.  The
// returned function releases the lock.
func (q *memQueries) enter(op string) (func(), error) {
	if q.top {
		if fn := q.m.takeBefore(op); fn != nil {
			fn()
		}
	}
	unlock := q.lock()
	if err := q.m.takeFault(op); err != nil {
		unlock()
		return nil, err
	}
	return unlock, nil
}

func (q *memQueries) UpsertRoom(_ context.Context, name string, at time.Time) (*model.Room, error) {
	unlock, err := q.enter("UpsertRoom")
	if err != nil {
		return nil, err
	}
	defer unlock()
	if r, ok := q.roomByName(name); ok {
		r.LastAccessed = at
		q.st.rooms[r.ID] = r
		return &r, nil
	}
	r := model.Room{ID: q.st.id(), Name: name, LastAccessed: at}
	q.st.rooms[r.ID] = r
	return &r, nil
}

func (q *memQueries) CreateRoom(_ context.Context, name string, at time.Time) (*model.Room, error) {
	unlock, err := q.enter("CreateRoom")
	if err != nil {
		return nil, err
	}
	defer unlock()
	if _, ok := q.roomByName(name); ok {
		return nil, repository.ErrDuplicate
	}
	r := model.Room{ID: q.st.id(), Name: name, LastAccessed: at}
	q.st.rooms[r.ID] = r
	return &r, nil
}

func (q *memQueries) RoomNameTaken(_ context.Context, name string) (bool, error) {
	unlock, err := q.enter("RoomNameTaken")
	if err != nil {
		return false, err
	}
	defer unlock()
	_, ok := q.roomByName(name)
	return ok, nil
}

func (q *memQueries) GetRoomByName(_ context.Context, name string) (*model.Room, error) {
	unlock, err := q.enter("GetRoomByName")
	if err != nil {
		return nil, err
	}
	defer unlock()
	if r, ok := q.roomByName(name); ok {
		return &r, nil
	}
	return nil, repository.ErrNotFound
}

func (q *memQueries) GetRoomByID(_ context.Context, id int64) (*model.Room, error) {
	unlock, err := q.enter("GetRoomByID")
	if err != nil {
		return nil, err
	}
	defer unlock()
	if r, ok := q.st.rooms[id]; ok {
		return &r, nil
	}
	return nil, repository.ErrNotFound
}

func (q *memQueries) LockRoom(_ context.Context, id int64) error {
	unlock, err := q.enter("LockRoom")
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := q.st.rooms[id]; !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (q *memQueries) TouchRoom(_ context.Context, id int64, at time.Time) error {
	unlock, err := q.enter("TouchRoom")
	if err != nil {
		return err
	}
	defer unlock()
	r, ok := q.st.rooms[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.LastAccessed = at
	q.st.rooms[id] = r
	return nil
}

func (q *memQueries) DeleteRoomsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	unlock, err := q.enter("DeleteRoomsBefore")
	if err != nil {
		return 0, err
	}
	defer unlock()
	var n int64
	for id, r := range q.st.rooms {
		if r.LastAccessed.Before(cutoff) {
			q.deleteRoom(id)
			n++
		}
	}
	return n, nil
}

func (q *memQueries) UpsertUser(_ context.Context, name string, roomID int64, at time.Time) (*model.User, error) {
	unlock, err := q.enter("UpsertUser")
	if err != nil {
		return nil, err
	}
	defer unlock()
	if _, ok := q.st.rooms[roomID]; !ok {
		return nil, ErrForeignKey
	}
	for id, u := range q.st.users {
		if u.Name == name {
			u.RoomID = roomID
			u.LastAccessed = at
			q.st.users[id] = u
			return &u, nil
		}
	}
	u := model.User{ID: q.st.id(), Name: name, RoomID: roomID, LastAccessed: at}
	q.st.users[u.ID] = u
	return &u, nil
}

func (q *memQueries) GetUserByName(_ context.Context, name string) (*model.User, error) {
	unlock, err := q.enter("GetUserByName")
	if err != nil {
		return nil, err
	}
	defer unlock()
	for _, u := range q.st.users {
		if u.Name == name {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (q *memQueries) ListUsersByRoom(_ context.Context, roomID int64) ([]model.User, error) {
	unlock, err := q.enter("ListUsersByRoom")
	if err != nil {
		return nil, err
	}
	defer unlock()
	var out []model.User
	for _, u := range q.st.users {
		if u.RoomID == roomID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (q *memQueries) DeleteUsersBefore(_ context.Context, cutoff time.Time) (int64, error) {
	unlock, err := q.enter("DeleteUsersBefore")
	if err != nil {
		return 0, err
	}
	defer unlock()
	var n int64
	for id, u := range q.st.users {
		if u.LastAccessed.Before(cutoff) {
			q.deleteUser(id)
			n++
		}
	}
	return n, nil
}

func (q *memQueries) ListHolesByRoom(_ context.Context, roomID int64) ([]model.Hole, error) {
	unlock, err := q.enter("ListHolesByRoom")
	if err != nil {
		return nil, err
	}
	defer unlock()
	return q.holesOf(roomID), nil
}

func (q *memQueries) CreateHole(_ context.Context, roomID int64, number, par int, at time.Time) (*model.Hole, error) {
	unlock, err := q.enter("CreateHole")
	if err != nil {
		return nil, err
	}
	defer unlock()
	if _, ok := q.st.rooms[roomID]; !ok {
		return nil, ErrForeignKey
	}
	for _, h := range q.st.holes {
		if h.RoomID == roomID && h.Number == number {
			return nil, repository.ErrDuplicate
		}
	}
	h := model.Hole{ID: q.st.id(), RoomID: roomID, Number: number, Par: par, LastAccessed: at}
	q.st.holes[h.ID] = h
	return &h, nil
}

func (q *memQueries) GetHole(_ context.Context, id int64) (*model.Hole, error) {
	unlock, err := q.enter("GetHole")
	if err != nil {
		return nil, err
	}
	defer unlock()
	if h, ok := q.st.holes[id]; ok {
		return &h, nil
	}
	return nil, repository.ErrNotFound
}

func (q *memQueries) DeleteHole(_ context.Context, id int64) error {
	unlock, err := q.enter("DeleteHole")
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := q.st.holes[id]; !ok {
		return repository.ErrNotFound
	}
	q.deleteHole(id)
	return nil
}

func (q *memQueries) CountHolesAfter(_ context.Context, roomID int64, number int) (int64, error) {
	unlock, err := q.enter("CountHolesAfter")
	if err != nil {
		return 0, err
	}
	defer unlock()
	var n int64
	for _, h := range q.st.holes {
		if h.RoomID == roomID && h.Number > number {
			n++
		}
	}
	return n, nil
}

func (q *memQueries) ShiftHolesDown(_ context.Context, roomID int64, number int, at time.Time) (int64, error) {
	unlock, err := q.enter("ShiftHolesDown")
	if err != nil {
		return 0, err
	}
	defer unlock()
	var n int64
	for _, h := range q.holesOf(roomID) {
		if h.Number <= number {
			continue
		}
		for _, other := range q.st.holes {
			if other.RoomID == roomID && other.Number == h.Number-1 {
				return n, repository.ErrDuplicate
			}
		}
		h.Number--
		h.LastAccessed = at
		q.st.holes[h.ID] = h
		n++
	}
	return n - q.m.takeShort("ShiftHolesDown"), nil
}

func (q *memQueries) ListScoresByRoom(_ context.Context, roomID int64) ([]model.Score, error) {
	unlock, err := q.enter("ListScoresByRoom")
	if err != nil {
		return nil, err
	}
	defer unlock()
	var out []model.Score
	for _, s := range q.st.scores {
		if h, ok := q.st.holes[s.HoleID]; ok && h.RoomID == roomID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (q *memQueries) CreateScore(_ context.Context, userID, holeID int64, at time.Time) (*model.Score, error) {
	unlock, err := q.enter("CreateScore")
	if err != nil {
		return nil, err
	}
	defer unlock()
	if err := q.checkScoreInsert(userID, holeID); err != nil {
		return nil, err
	}
	s := model.Score{ID: q.st.id(), UserID: userID, HoleID: holeID, LastAccessed: at}
	q.st.scores[s.ID] = s
	return &s, nil
}

func (q *memQueries) CreateScores(_ context.Context, holeID int64, userIDs []int64, at time.Time) (int64, error) {
	unlock, err := q.enter("CreateScores")
	if err != nil {
		return 0, err
	}
	defer unlock()
	seen := map[int64]bool{}
	for _, uid := range userIDs {
		if seen[uid] {
			return 0, repository.ErrDuplicate
		}
		seen[uid] = true
		if err := q.checkScoreInsert(uid, holeID); err != nil {
			return 0, err
		}
	}
	for _, uid := range userIDs {
		s := model.Score{ID: q.st.id(), UserID: uid, HoleID: holeID, LastAccessed: at}
		q.st.scores[s.ID] = s
	}
	return int64(len(userIDs)) - q.m.takeShort("CreateScores"), nil
}

func (q *memQueries) GetScore(_ context.Context, id int64) (*model.Score, error) {
	unlock, err := q.enter("GetScore")
	if err != nil {
		return nil, err
	}
	defer unlock()
	if s, ok := q.st.scores[id]; ok {
		return &s, nil
	}
	return nil, repository.ErrNotFound
}

func (q *memQueries) GetScoreByPair(_ context.Context, userID, holeID int64) (*model.Score, error) {
	unlock, err := q.enter("GetScoreByPair")
	if err != nil {
		return nil, err
	}
	defer unlock()
	for _, s := range q.st.scores {
		if s.UserID == userID && s.HoleID == holeID {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (q *memQueries) SetScore(_ context.Context, id, userID int64, value int, at time.Time) (int64, error) {
	unlock, err := q.enter("SetScore")
	if err != nil {
		return 0, err
	}
	defer unlock()
	s, ok := q.st.scores[id]
	if !ok || s.UserID != userID {
		return 0, nil
	}
	s.Score = value
	s.LastAccessed = at
	q.st.scores[id] = s
	return 1, nil
}

func (q *memQueries) roomByName(name string) (model.Room, bool) {
	for _, r := range q.st.rooms {
		if r.Name == name {
			return r, true
		}
	}
	return model.Room{}, false
}

func (q *memQueries) holesOf(roomID int64) []model.Hole {
	var out []model.Hole
	for _, h := range q.st.holes {
		if h.RoomID == roomID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (q *memQueries) checkScoreInsert(userID, holeID int64) error {
	if _, ok := q.st.users[userID]; !ok {
		return ErrForeignKey
	}
	if _, ok := q.st.holes[holeID]; !ok {
		return ErrForeignKey
	}
	for _, s := range q.st.scores {
		if s.UserID == userID && s.HoleID == holeID {
			return repository.ErrDuplicate
		}
	}
	return nil
}

func (q *memQueries) deleteRoom(id int64) {
	for uid, u := range q.st.users {
		if u.RoomID == id {
			q.deleteUser(uid)
		}
	}
	for hid, h := range q.st.holes {
		if h.RoomID == id {
			q.deleteHole(hid)
		}
	}
	delete(q.st.rooms, id)
}

func (q *memQueries) deleteUser(id int64) {
	for sid, s := range q.st.scores {
		if s.UserID == id {
			delete(q.st.scores, sid)
		}
	}
	delete(q.st.users, id)
}

func (q *memQueries) deleteHole(id int64) {
	for sid, s := range q.st.scores {
		if s.HoleID == id {
			delete(q.st.scores, sid)
		}
	}
	delete(q.st.holes, id)
}
