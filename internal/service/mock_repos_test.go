package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"yoklama/backend/internal/model"
	"yoklama/backend/internal/repository"
	"yoklama/backend/pkg/storage"
)

// ── 测试夹具 ──

// newTestUser 构造带真实密码哈希的用户（密码字段与外部认证服务同构）
func newTestUser(id, name, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("parola-"+id), bcrypt.MinCost)
	return &model.User{
		UserID:       id,
		Name:         name,
		Email:        id + "@uni.edu.tr",
		PasswordHash: string(hash),
		Role:         role,
	}
}

// ── Mock SectionRepository ──

type mockSectionRepo struct {
	sections map[string]*model.Section
}

func newMockSectionRepo() *mockSectionRepo {
	return &mockSectionRepo{sections: make(map[string]*model.Section)}
}

func (m *mockSectionRepo) GetByID(_ context.Context, id string) (*model.Section, error) {
	if s, ok := m.sections[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSectionRepo) ListByFaculty(_ context.Context, facultyID string) ([]model.Section, error) {
	var result []model.Section
	for _, s := range m.sections {
		if s.FacultyID == facultyID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSectionRepo) ListAll(_ context.Context) ([]model.Section, error) {
	var result []model.Section
	for _, s := range m.sections {
		result = append(result, *s)
	}
	return result, nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	enrollments map[string]*model.Enrollment // "studentID:sectionID"
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{enrollments: make(map[string]*model.Enrollment)}
}

func (m *mockEnrollmentRepo) add(studentID, sectionID string) {
	key := studentID + ":" + sectionID
	m.enrollments[key] = &model.Enrollment{
		EnrollmentID: "enr-" + key,
		StudentID:    studentID,
		SectionID:    sectionID,
	}
}

func (m *mockEnrollmentRepo) Exists(_ context.Context, studentID, sectionID string) (bool, error) {
	_, ok := m.enrollments[studentID+":"+sectionID]
	return ok, nil
}

func (m *mockEnrollmentRepo) ListByStudent(_ context.Context, studentID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if e.StudentID == studentID {
			result = append(result, *e)
		}
	}
	return result, nil
}

// ── Mock SessionRepository ──

type mockSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.ClassSession
	nextID   int
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*model.ClassSession)}
}

func (m *mockSessionRepo) Create(_ context.Context, session *model.ClassSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session.SessionID == "" {
		m.nextID++
		session.SessionID = fmt.Sprintf("ses-%03d", m.nextID)
	}
	m.sessions[session.SessionID] = session
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.ClassSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) UpdateStatus(_ context.Context, id, from, to string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	return true, nil
}

func (m *mockSessionRepo) ListBySection(_ context.Context, sectionID string) ([]model.ClassSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.ClassSession
	for _, s := range m.sessions {
		if s.SectionID == sectionID {
			result = append(result, *s)
		}
	}
	// 报表排序：日期倒序，同日按开始时间倒序
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].StartTime > result[j].StartTime
	})
	return result, nil
}

// ── Mock AttendanceRepository ──

// mockAttendanceRepo 用互斥锁模拟数据库的部分唯一索引：
// 同一 (session, student) 的非 rejected 记录插入第二条时返回 gorm.ErrDuplicatedKey，
// 并发重复签到恰好一胜一败
type mockAttendanceRepo struct {
	mu       sync.Mutex
	records  map[string]*model.AttendanceRecord
	sessions *mockSessionRepo // 解析 session → section 归属
	nextID   int
}

func newMockAttendanceRepo(sessions *mockSessionRepo) *mockAttendanceRepo {
	return &mockAttendanceRepo{
		records:  make(map[string]*model.AttendanceRecord),
		sessions: sessions,
	}
}

func (m *mockAttendanceRepo) Create(_ context.Context, record *model.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.SessionID == record.SessionID && r.StudentID == record.StudentID && r.Status != model.RecordRejected {
			return gorm.ErrDuplicatedKey
		}
	}
	if record.RecordID == "" {
		m.nextID++
		record.RecordID = fmt.Sprintf("rec-%03d", m.nextID)
	}
	copied := *record
	m.records[record.RecordID] = &copied
	return nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok {
		copied := *r
		if s, ok := m.sessions.sessions[r.SessionID]; ok {
			copied.Session = s
		}
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) GetCurrent(_ context.Context, sessionID, studentID string) (*model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.SessionID == sessionID && r.StudentID == studentID && r.Status != model.RecordRejected {
			copied := *r
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Update(_ context.Context, record *model.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.RecordID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *record
	copied.Session = nil
	m.records[record.RecordID] = &copied
	return nil
}

func (m *mockAttendanceRepo) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

func (m *mockAttendanceRepo) CountBySectionStudent(_ context.Context, sectionID, studentID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, r := range m.records {
		if r.StudentID != studentID {
			continue
		}
		if s, ok := m.sessions.sessions[r.SessionID]; ok && s.SectionID == sectionID {
			count++
		}
	}
	return count, nil
}

func (m *mockAttendanceRepo) LatestOtherSession(_ context.Context, studentID, excludeSessionID string) (*model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *model.AttendanceRecord
	for _, r := range m.records {
		if r.StudentID != studentID || r.SessionID == excludeSessionID {
			continue
		}
		if latest == nil || r.CheckInTime.After(latest.CheckInTime) {
			latest = r
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *latest
	return &copied, nil
}

func (m *mockAttendanceRepo) ListByStudent(_ context.Context, studentID string) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.StudentID == studentID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CheckInTime.After(result[j].CheckInTime)
	})
	return result, nil
}

// ── Mock ExcuseRepository ──

type mockExcuseRepo struct {
	mu       sync.Mutex
	excuses  map[string]*model.ExcuseRequest
	sessions *mockSessionRepo // 解析 session → section 归属
	// createErr 注入 Create 失败，验证材料回收的全有或全无语义
	createErr error
	nextID    int
}

func newMockExcuseRepo(sessions *mockSessionRepo) *mockExcuseRepo {
	return &mockExcuseRepo{
		excuses:  make(map[string]*model.ExcuseRequest),
		sessions: sessions,
	}
}

func (m *mockExcuseRepo) Create(_ context.Context, excuse *model.ExcuseRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, e := range m.excuses {
		if e.SessionID == excuse.SessionID && e.StudentID == excuse.StudentID &&
			(e.Status == model.ExcusePending || e.Status == model.ExcuseApproved) {
			return gorm.ErrDuplicatedKey
		}
	}
	if excuse.ExcuseID == "" {
		m.nextID++
		excuse.ExcuseID = fmt.Sprintf("exc-%03d", m.nextID)
	}
	copied := *excuse
	m.excuses[excuse.ExcuseID] = &copied
	return nil
}

func (m *mockExcuseRepo) GetByID(_ context.Context, id string) (*model.ExcuseRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.excuses[id]; ok {
		copied := *e
		if s, ok := m.sessions.sessions[e.SessionID]; ok {
			copied.Session = s
		}
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExcuseRepo) GetPendingOrApproved(_ context.Context, sessionID, studentID string) (*model.ExcuseRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.excuses {
		if e.SessionID == sessionID && e.StudentID == studentID &&
			(e.Status == model.ExcusePending || e.Status == model.ExcuseApproved) {
			copied := *e
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExcuseRepo) Decide(_ context.Context, id, outcome, deciderID string, decidedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.excuses[id]
	if !ok || e.Status != model.ExcusePending {
		return false, nil
	}
	e.Status = outcome
	e.DecidedBy = &deciderID
	e.DecidedAt = &decidedAt
	return true, nil
}

func (m *mockExcuseRepo) List(_ context.Context, filters *repository.ExcuseListFilters, offset, limit int) ([]model.ExcuseRequest, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.ExcuseRequest
	for _, e := range m.excuses {
		if filters != nil {
			if filters.Status != "" && e.Status != filters.Status {
				continue
			}
			if filters.StudentID != "" && e.StudentID != filters.StudentID {
				continue
			}
		}
		result = append(result, *e)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockExcuseRepo) ListApprovedBySection(_ context.Context, sectionID string) ([]model.ExcuseRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.ExcuseRequest
	for _, e := range m.excuses {
		if e.Status != model.ExcuseApproved {
			continue
		}
		if s, ok := m.sessions.sessions[e.SessionID]; !ok || s.SectionID != sectionID {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

// ── Mock Store ──

type mockStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	saveErr error
	nextID  int
}

func newMockStore() *mockStore {
	return &mockStore{objects: make(map[string][]byte)}
}

func (m *mockStore) Save(_ context.Context, r io.Reader, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return "", m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.nextID++
	key := fmt.Sprintf("obj-%03d", m.nextID)
	m.objects[key] = data
	return key, nil
}

func (m *mockStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// ── 聚合构造 ──

type testRepos struct {
	section    *mockSectionRepo
	enrollment *mockEnrollmentRepo
	session    *mockSessionRepo
	attendance *mockAttendanceRepo
	excuse     *mockExcuseRepo
}

func newTestRepos() (*repository.Repository, *testRepos) {
	sectionRepo := newMockSectionRepo()
	enrollmentRepo := newMockEnrollmentRepo()
	sessionRepo := newMockSessionRepo()
	attendanceRepo := newMockAttendanceRepo(sessionRepo)
	excuseRepo := newMockExcuseRepo(sessionRepo)

	repo := &repository.Repository{
		Section:    sectionRepo,
		Enrollment: enrollmentRepo,
		Session:    sessionRepo,
		Attendance: attendanceRepo,
		Excuse:     excuseRepo,
	}
	return repo, &testRepos{
		section:    sectionRepo,
		enrollment: enrollmentRepo,
		session:    sessionRepo,
		attendance: attendanceRepo,
		excuse:     excuseRepo,
	}
}
