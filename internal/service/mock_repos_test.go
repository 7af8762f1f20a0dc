package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/model"
	pkgerrors "github.com/NTGriffiths01/Fire-and-Environmental-Suite/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email && u.IsActive {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock FacilityRepository ──

type mockFacilityRepo struct {
	facilities map[string]*model.Facility
	seq        int
}

func newMockFacilityRepo() *mockFacilityRepo {
	return &mockFacilityRepo{facilities: make(map[string]*model.Facility)}
}

func (m *mockFacilityRepo) Create(_ context.Context, facility *model.Facility) error {
	if facility.FacilityID == "" {
		m.seq++
		facility.FacilityID = fmt.Sprintf("fac-%03d", m.seq)
	}
	m.facilities[facility.FacilityID] = facility
	return nil
}

func (m *mockFacilityRepo) GetByID(_ context.Context, id string) (*model.Facility, error) {
	if f, ok := m.facilities[id]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFacilityRepo) ListActive(_ context.Context) ([]model.Facility, error) {
	var result []model.Facility
	var ids []string
	for id, f := range m.facilities {
		if f.IsActive {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		result = append(result, *m.facilities[id])
	}
	return result, nil
}

func (m *mockFacilityRepo) Update(_ context.Context, facility *model.Facility) error {
	m.facilities[facility.FacilityID] = facility
	return nil
}

// ── Mock FunctionRepository ──

type mockFunctionRepo struct {
	functions map[string]*model.ComplianceFunction
	seq       int
}

func newMockFunctionRepo() *mockFunctionRepo {
	return &mockFunctionRepo{functions: make(map[string]*model.ComplianceFunction)}
}

func (m *mockFunctionRepo) Create(_ context.Context, fn *model.ComplianceFunction) error {
	if fn.FunctionID == "" {
		m.seq++
		fn.FunctionID = fmt.Sprintf("fn-%03d", m.seq)
	}
	m.functions[fn.FunctionID] = fn
	return nil
}

func (m *mockFunctionRepo) GetByID(_ context.Context, id string) (*model.ComplianceFunction, error) {
	if f, ok := m.functions[id]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFunctionRepo) ListActive(_ context.Context) ([]model.ComplianceFunction, error) {
	var result []model.ComplianceFunction
	for _, f := range m.functions {
		if f.IsActive {
			result = append(result, *f)
		}
	}
	return result, nil
}

func (m *mockFunctionRepo) Update(_ context.Context, fn *model.ComplianceFunction) error {
	m.functions[fn.FunctionID] = fn
	return nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.ComplianceSchedule
	seq       int
	onGet     func(stored *model.ComplianceSchedule) // GetByID 发出副本后回调，用于模拟并发写
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]*model.ComplianceSchedule)}
}

func (m *mockScheduleRepo) Create(_ context.Context, schedule *model.ComplianceSchedule) error {
	if schedule.ScheduleID == "" {
		m.seq++
		schedule.ScheduleID = fmt.Sprintf("sch-%03d", m.seq)
	}
	cp := *schedule
	m.schedules[schedule.ScheduleID] = &cp
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.ComplianceSchedule, error) {
	if s, ok := m.schedules[id]; ok {
		cp := *s
		if m.onGet != nil {
			m.onGet(s)
		}
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) sorted(filter func(*model.ComplianceSchedule) bool) []model.ComplianceSchedule {
	var ids []string
	for id, s := range m.schedules {
		if filter(s) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	result := make([]model.ComplianceSchedule, 0, len(ids))
	for _, id := range ids {
		result = append(result, *m.schedules[id])
	}
	return result
}

func (m *mockScheduleRepo) ListActive(_ context.Context) ([]model.ComplianceSchedule, error) {
	return m.sorted(func(s *model.ComplianceSchedule) bool { return s.IsActive }), nil
}

func (m *mockScheduleRepo) ListByFacility(_ context.Context, facilityID string, activeOnly bool) ([]model.ComplianceSchedule, error) {
	return m.sorted(func(s *model.ComplianceSchedule) bool {
		return s.FacilityID == facilityID && (!activeOnly || s.IsActive)
	}), nil
}

func (m *mockScheduleRepo) List(_ context.Context, facilityID string) ([]model.ComplianceSchedule, error) {
	return m.sorted(func(s *model.ComplianceSchedule) bool {
		return facilityID == "" || s.FacilityID == facilityID
	}), nil
}

// Update 模拟乐观锁：版本不匹配返回 ErrOptimisticLock
func (m *mockScheduleRepo) Update(_ context.Context, schedule *model.ComplianceSchedule) error {
	stored, ok := m.schedules[schedule.ScheduleID]
	if !ok || stored.Version != schedule.Version {
		return pkgerrors.ErrOptimisticLock
	}
	schedule.Version++
	cp := *schedule
	m.schedules[schedule.ScheduleID] = &cp
	return nil
}

// ── Mock RecordRepository ──

type mockRecordRepo struct {
	records   map[string]*model.ComplianceRecord
	seq       int
	docs      *mockDocumentRepo // HasDocuments 联动
	latestErr error             // 注入 LatestCompleted 的查询故障
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{records: make(map[string]*model.ComplianceRecord)}
}

func (m *mockRecordRepo) Insert(_ context.Context, record *model.ComplianceRecord) (bool, error) {
	// 模拟 (schedule_id, due_date) 唯一约束：冲突即无操作
	for _, r := range m.records {
		if r.ScheduleID == record.ScheduleID && r.DueDate.Equal(record.DueDate) {
			return false, nil
		}
	}
	if record.RecordID == "" {
		m.seq++
		record.RecordID = fmt.Sprintf("rec-%03d", m.seq)
	}
	cp := *record
	m.records[record.RecordID] = &cp
	return true, nil
}

func (m *mockRecordRepo) GetByID(_ context.Context, id string) (*model.ComplianceRecord, error) {
	if r, ok := m.records[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRecordRepo) GetByScheduleAndDueDate(_ context.Context, scheduleID string, dueDate time.Time) (*model.ComplianceRecord, error) {
	for _, r := range m.records {
		if r.ScheduleID == scheduleID && r.DueDate.Equal(dueDate) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRecordRepo) sorted(filter func(*model.ComplianceRecord) bool) []model.ComplianceRecord {
	var result []model.ComplianceRecord
	for _, r := range m.records {
		if filter(r) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DueDate.Before(result[j].DueDate) })
	return result
}

func (m *mockRecordRepo) ListBySchedule(_ context.Context, scheduleID string) ([]model.ComplianceRecord, error) {
	return m.sorted(func(r *model.ComplianceRecord) bool { return r.ScheduleID == scheduleID }), nil
}

func (m *mockRecordRepo) ListByScheduleInYear(_ context.Context, scheduleID string, year int) ([]model.ComplianceRecord, error) {
	return m.sorted(func(r *model.ComplianceRecord) bool {
		return r.ScheduleID == scheduleID && r.DueDate.Year() == year
	}), nil
}

func (m *mockRecordRepo) LatestCompleted(_ context.Context, scheduleID string) (*model.ComplianceRecord, error) {
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	var latest *model.ComplianceRecord
	for _, r := range m.records {
		if r.ScheduleID != scheduleID || r.Status != model.RecordStatusCompleted || r.CompletedDate == nil {
			continue
		}
		if latest == nil || r.CompletedDate.After(*latest.CompletedDate) {
			latest = r
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *mockRecordRepo) Update(_ context.Context, record *model.ComplianceRecord) error {
	if _, ok := m.records[record.RecordID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *record
	m.records[record.RecordID] = &cp
	return nil
}

func (m *mockRecordRepo) MarkOverdueBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, r := range m.records {
		if r.Status == model.RecordStatusPending && r.DueDate.Before(cutoff) {
			r.Status = model.RecordStatusOverdue
			n++
		}
	}
	return n, nil
}

func (m *mockRecordRepo) CountAll(_ context.Context, _ string) (int64, error) {
	return int64(len(m.records)), nil
}

func (m *mockRecordRepo) CountCompleted(_ context.Context, _ string) (int64, error) {
	var n int64
	for _, r := range m.records {
		if r.Status == model.RecordStatusCompleted {
			n++
		}
	}
	return n, nil
}

func (m *mockRecordRepo) CountOverduePending(_ context.Context, _ string, today time.Time) (int64, error) {
	var n int64
	for _, r := range m.records {
		if r.Status == model.RecordStatusPending && r.DueDate.Before(today) {
			n++
		}
	}
	return n, nil
}

func (m *mockRecordRepo) HasDocuments(_ context.Context, recordID string) (bool, error) {
	if m.docs == nil {
		return false, nil
	}
	for _, d := range m.docs.docs {
		if d.RecordID == recordID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRecordRepo) ListUpcoming(_ context.Context, _ string, from, to time.Time) ([]model.ComplianceRecord, error) {
	return m.sorted(func(r *model.ComplianceRecord) bool {
		if r.Status != model.RecordStatusPending && r.Status != model.RecordStatusOverdue {
			return false
		}
		return !r.DueDate.Before(from) && !r.DueDate.After(to)
	}), nil
}

// ── Mock RecordCommentRepository ──

type mockCommentRepo struct {
	comments []*model.RecordComment
	seq      int
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{}
}

func (m *mockCommentRepo) Create(_ context.Context, comment *model.RecordComment) error {
	m.seq++
	comment.CommentID = fmt.Sprintf("cmt-%03d", m.seq)
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	cp := *comment
	m.comments = append(m.comments, &cp)
	return nil
}

func (m *mockCommentRepo) ListByRecord(_ context.Context, recordID string) ([]model.RecordComment, error) {
	var result []model.RecordComment
	for _, c := range m.comments {
		if c.RecordID == recordID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// ── Mock RecordDocumentRepository ──

type mockDocumentRepo struct {
	docs []*model.RecordDocument
	seq  int
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{}
}

func (m *mockDocumentRepo) Create(_ context.Context, doc *model.RecordDocument) error {
	m.seq++
	doc.DocumentID = fmt.Sprintf("doc-%03d", m.seq)
	cp := *doc
	m.docs = append(m.docs, &cp)
	return nil
}

func (m *mockDocumentRepo) ListByRecord(_ context.Context, recordID string) ([]model.RecordDocument, error) {
	var result []model.RecordDocument
	for _, d := range m.docs {
		if d.RecordID == recordID {
			result = append(result, *d)
		}
	}
	return result, nil
}

// ── Mock InspectionRepository ──

type mockInspectionRepo struct {
	inspections map[string]*model.MonthlyInspection
	seq         int
}

func newMockInspectionRepo() *mockInspectionRepo {
	return &mockInspectionRepo{inspections: make(map[string]*model.MonthlyInspection)}
}

func (m *mockInspectionRepo) Create(_ context.Context, inspection *model.MonthlyInspection) error {
	// 模拟 (facility_id, year, month) 唯一约束
	for _, ins := range m.inspections {
		if ins.FacilityID == inspection.FacilityID && ins.Year == inspection.Year && ins.Month == inspection.Month {
			return gorm.ErrDuplicatedKey
		}
	}
	m.seq++
	inspection.InspectionID = fmt.Sprintf("ins-%03d", m.seq)
	cp := *inspection
	m.inspections[inspection.InspectionID] = &cp
	return nil
}

func (m *mockInspectionRepo) GetByID(_ context.Context, id string) (*model.MonthlyInspection, error) {
	if ins, ok := m.inspections[id]; ok {
		cp := *ins
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInspectionRepo) GetByFacilityYearMonth(_ context.Context, facilityID string, year, month int) (*model.MonthlyInspection, error) {
	for _, ins := range m.inspections {
		if ins.FacilityID == facilityID && ins.Year == year && ins.Month == month {
			cp := *ins
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInspectionRepo) ListByFacility(ctx context.Context, facilityID string, year int) ([]model.MonthlyInspection, error) {
	return m.List(ctx, facilityID, year)
}

func (m *mockInspectionRepo) List(_ context.Context, facilityID string, year int) ([]model.MonthlyInspection, error) {
	var result []model.MonthlyInspection
	for _, ins := range m.inspections {
		if facilityID != "" && ins.FacilityID != facilityID {
			continue
		}
		if year > 0 && ins.Year != year {
			continue
		}
		result = append(result, *ins)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year > result[j].Year
		}
		return result[i].Month > result[j].Month
	})
	return result, nil
}

func (m *mockInspectionRepo) Update(_ context.Context, inspection *model.MonthlyInspection) error {
	if _, ok := m.inspections[inspection.InspectionID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *inspection
	m.inspections[inspection.InspectionID] = &cp
	return nil
}

// ── Mock DeficiencyRepository ──

type mockDeficiencyRepo struct {
	deficiencies map[string]*model.InspectionDeficiency
	seq          int
}

func newMockDeficiencyRepo() *mockDeficiencyRepo {
	return &mockDeficiencyRepo{deficiencies: make(map[string]*model.InspectionDeficiency)}
}

func (m *mockDeficiencyRepo) Create(_ context.Context, deficiency *model.InspectionDeficiency) error {
	m.seq++
	deficiency.DeficiencyID = fmt.Sprintf("def-%03d", m.seq)
	if deficiency.CreatedAt.IsZero() {
		deficiency.CreatedAt = time.Now()
	}
	cp := *deficiency
	m.deficiencies[deficiency.DeficiencyID] = &cp
	return nil
}

func (m *mockDeficiencyRepo) GetByID(_ context.Context, id string) (*model.InspectionDeficiency, error) {
	if d, ok := m.deficiencies[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeficiencyRepo) list(filter func(*model.InspectionDeficiency) bool) []model.InspectionDeficiency {
	var ids []string
	for id, d := range m.deficiencies {
		if filter(d) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	result := make([]model.InspectionDeficiency, 0, len(ids))
	for _, id := range ids {
		result = append(result, *m.deficiencies[id])
	}
	return result
}

func (m *mockDeficiencyRepo) ListByInspection(_ context.Context, inspectionID string) ([]model.InspectionDeficiency, error) {
	return m.list(func(d *model.InspectionDeficiency) bool { return d.InspectionID == inspectionID }), nil
}

func (m *mockDeficiencyRepo) ListUnresolvedByInspection(_ context.Context, inspectionID string) ([]model.InspectionDeficiency, error) {
	return m.list(func(d *model.InspectionDeficiency) bool {
		return d.InspectionID == inspectionID &&
			(d.Status == model.DeficiencyStatusOpen || d.Status == model.DeficiencyStatusInProgress)
	}), nil
}

func (m *mockDeficiencyRepo) Update(_ context.Context, deficiency *model.InspectionDeficiency) error {
	if _, ok := m.deficiencies[deficiency.DeficiencyID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *deficiency
	m.deficiencies[deficiency.DeficiencyID] = &cp
	return nil
}

// ── Mock SignatureRepository ──

type mockSignatureRepo struct {
	signatures []*model.InspectionSignature
	seq        int
}

func newMockSignatureRepo() *mockSignatureRepo {
	return &mockSignatureRepo{}
}

func (m *mockSignatureRepo) Create(_ context.Context, signature *model.InspectionSignature) error {
	m.seq++
	signature.SignatureID = fmt.Sprintf("sig-%03d", m.seq)
	cp := *signature
	m.signatures = append(m.signatures, &cp)
	return nil
}

func (m *mockSignatureRepo) GetByInspectionAndType(_ context.Context, inspectionID, signatureType string) (*model.InspectionSignature, error) {
	for _, s := range m.signatures {
		if s.InspectionID == inspectionID && s.SignatureType == signatureType {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ViolationCodeRepository ──

type mockViolationCodeRepo struct {
	codes map[string]*model.ViolationCode
	seq   int
}

func newMockViolationCodeRepo() *mockViolationCodeRepo {
	return &mockViolationCodeRepo{codes: make(map[string]*model.ViolationCode)}
}

func (m *mockViolationCodeRepo) Create(_ context.Context, code *model.ViolationCode) error {
	m.seq++
	code.CodeID = fmt.Sprintf("vc-%03d", m.seq)
	m.codes[code.CodeID] = code
	return nil
}

func (m *mockViolationCodeRepo) GetByID(_ context.Context, id string) (*model.ViolationCode, error) {
	if c, ok := m.codes[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockViolationCodeRepo) List(_ context.Context, codeType string) ([]model.ViolationCode, error) {
	var result []model.ViolationCode
	for _, c := range m.codes {
		if c.IsActive && (codeType == "" || c.CodeType == codeType) {
			result = append(result, *c)
		}
	}
	return result, nil
}

// [自证通过] internal/service/mock_repos_test.go
