// Package store provides in-memory Directory and Journal implementations.
package store

import (
	"sort"
	"sync"

	"github.com/warp/payroll/payroll"
)

// =============================================================================
// MEMORY DIRECTORY
// =============================================================================

// Memory is a Directory backed by two maps. Each method locks on its own;
// use TxMemory when a whole transaction must run under one lock.
type Memory struct {
	mu        sync.RWMutex
	employees map[payroll.EmployeeID]*payroll.Employee
	members   map[payroll.MemberID]payroll.EmployeeID
}

var _ payroll.Directory = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		employees: make(map[payroll.EmployeeID]*payroll.Employee),
		members:   make(map[payroll.MemberID]payroll.EmployeeID),
	}
}

func (m *Memory) AddEmployee(id payroll.EmployeeID, e *payroll.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addEmployeeLocked(id, e)
}

func (m *Memory) DeleteEmployee(id payroll.EmployeeID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteEmployeeLocked(id)
}

func (m *Memory) GetEmployee(id payroll.EmployeeID) (*payroll.Employee, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getEmployeeLocked(id)
}

func (m *Memory) EmployeeIDs() []payroll.EmployeeID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.employeeIDsLocked()
}

func (m *Memory) AddUnionMember(memberID payroll.MemberID, empID payroll.EmployeeID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addUnionMemberLocked(memberID, empID)
}

func (m *Memory) DeleteUnionMember(memberID payroll.MemberID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteUnionMemberLocked(memberID)
}

func (m *Memory) UnionMemberEmployeeID(memberID payroll.MemberID) (payroll.EmployeeID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.unionMemberEmployeeIDLocked(memberID)
}

func (m *Memory) GetUnionMember(memberID payroll.MemberID) (*payroll.Employee, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getUnionMemberLocked(memberID)
}

func (m *Memory) addEmployeeLocked(id payroll.EmployeeID, e *payroll.Employee) {
	m.employees[id] = e
}

func (m *Memory) deleteEmployeeLocked(id payroll.EmployeeID) {
	delete(m.employees, id)
}

func (m *Memory) getEmployeeLocked(id payroll.EmployeeID) (*payroll.Employee, bool) {
	e, ok := m.employees[id]
	return e, ok
}

func (m *Memory) employeeIDsLocked() []payroll.EmployeeID {
	ids := make([]payroll.EmployeeID, 0, len(m.employees))
	for id := range m.employees {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *Memory) addUnionMemberLocked(memberID payroll.MemberID, empID payroll.EmployeeID) {
	m.members[memberID] = empID
}

func (m *Memory) deleteUnionMemberLocked(memberID payroll.MemberID) {
	delete(m.members, memberID)
}

func (m *Memory) unionMemberEmployeeIDLocked(memberID payroll.MemberID) (payroll.EmployeeID, bool) {
	empID, ok := m.members[memberID]
	return empID, ok
}

func (m *Memory) getUnionMemberLocked(memberID payroll.MemberID) (*payroll.Employee, bool) {
	empID, ok := m.members[memberID]
	if !ok {
		return nil, false
	}
	return m.getEmployeeLocked(empID)
}

// =============================================================================
// TRANSACTIONAL MEMORY DIRECTORY
// =============================================================================

// TxMemory wraps Memory with transaction support.
type TxMemory struct {
	*Memory
}

var _ payroll.TxDirectory = (*TxMemory)(nil)

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn holding the write lock. The view records the prior
// state of each employee and member id the first time fn touches it; on error
// only those entries are restored.
func (tm *TxMemory) WithTx(fn func(payroll.Directory) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	undo := newUndoLog()
	if err := fn(&txMemoryView{parent: tm.Memory, undo: undo}); err != nil {
		undo.restore(tm.Memory)
		return err
	}
	return nil
}

// View executes fn holding the read lock.
func (tm *TxMemory) View(fn func(payroll.Directory) error) error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return fn(&txMemoryView{parent: tm.Memory})
}

// undoLog holds the pre-transaction value of every touched entry. A nil
// employee or an absent member marks an entry that did not exist.
type undoLog struct {
	employees map[payroll.EmployeeID]*payroll.Employee
	members   map[payroll.MemberID]priorMember
}

type priorMember struct {
	empID   payroll.EmployeeID
	present bool
}

func newUndoLog() *undoLog {
	return &undoLog{
		employees: make(map[payroll.EmployeeID]*payroll.Employee),
		members:   make(map[payroll.MemberID]priorMember),
	}
}

// saveEmployee must run before the employee is handed out or replaced, since
// callers mutate employees in place.
func (u *undoLog) saveEmployee(m *Memory, id payroll.EmployeeID) {
	if _, saved := u.employees[id]; saved {
		return
	}
	var prior *payroll.Employee
	if e, ok := m.employees[id]; ok {
		prior = e.Clone()
	}
	u.employees[id] = prior
}

func (u *undoLog) saveMember(m *Memory, memberID payroll.MemberID) {
	if _, saved := u.members[memberID]; saved {
		return
	}
	empID, ok := m.members[memberID]
	u.members[memberID] = priorMember{empID: empID, present: ok}
}

func (u *undoLog) restore(m *Memory) {
	for id, e := range u.employees {
		if e == nil {
			delete(m.employees, id)
		} else {
			m.employees[id] = e
		}
	}
	for memberID, p := range u.members {
		if p.present {
			m.members[memberID] = p.empID
		} else {
			delete(m.members, memberID)
		}
	}
}

// txMemoryView is the Directory handed to WithTx/View callbacks. The lock
// is already held, so it calls the *Locked methods directly. undo is nil for
// read-only views.
type txMemoryView struct {
	parent *Memory
	undo   *undoLog
}

func (v *txMemoryView) touchEmployee(id payroll.EmployeeID) {
	if v.undo != nil {
		v.undo.saveEmployee(v.parent, id)
	}
}

func (v *txMemoryView) touchMember(memberID payroll.MemberID) {
	if v.undo != nil {
		v.undo.saveMember(v.parent, memberID)
	}
}

func (v *txMemoryView) AddEmployee(id payroll.EmployeeID, e *payroll.Employee) {
	v.touchEmployee(id)
	v.parent.addEmployeeLocked(id, e)
}

func (v *txMemoryView) DeleteEmployee(id payroll.EmployeeID) {
	v.touchEmployee(id)
	v.parent.deleteEmployeeLocked(id)
}

func (v *txMemoryView) GetEmployee(id payroll.EmployeeID) (*payroll.Employee, bool) {
	v.touchEmployee(id)
	return v.parent.getEmployeeLocked(id)
}

func (v *txMemoryView) EmployeeIDs() []payroll.EmployeeID {
	return v.parent.employeeIDsLocked()
}

func (v *txMemoryView) AddUnionMember(memberID payroll.MemberID, empID payroll.EmployeeID) {
	v.touchMember(memberID)
	v.parent.addUnionMemberLocked(memberID, empID)
}

func (v *txMemoryView) DeleteUnionMember(memberID payroll.MemberID) {
	v.touchMember(memberID)
	v.parent.deleteUnionMemberLocked(memberID)
}

func (v *txMemoryView) UnionMemberEmployeeID(memberID payroll.MemberID) (payroll.EmployeeID, bool) {
	return v.parent.unionMemberEmployeeIDLocked(memberID)
}

func (v *txMemoryView) GetUnionMember(memberID payroll.MemberID) (*payroll.Employee, bool) {
	empID, ok := v.parent.unionMemberEmployeeIDLocked(memberID)
	if !ok {
		return nil, false
	}
	v.touchEmployee(empID)
	return v.parent.getEmployeeLocked(empID)
}
