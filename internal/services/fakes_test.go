package services

import (
	"context"
	"fmt"
	"sort"

	"suryaghar-backend/internal/leadscore"
	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/repositories"

	"github.com/google/uuid"
)

func intPtr(v int) *int { return &v }

var (
	adminActor = models.Actor{ID: 1, Role: models.RoleAdmin}
	bdpActor   = models.Actor{ID: 2, Role: models.RoleBDP}
	ddpActor   = models.Actor{ID: 3, Role: models.RoleDDP}
	cpActor    = models.Actor{ID: 4, Role: models.RoleCustomerPartner}
	otherDDP   = models.Actor{ID: 5, Role: models.RoleDDP}
)

type fakeUsers struct {
	users  map[int]*models.User
	nextID int
}

// newFakeUsers seeds one partner chain admin(1) BDP(2) -> DDP(3) -> CP(4)
// plus a DDP(5) under an unrelated BDP(6).
func newFakeUsers() *fakeUsers {
	f := &fakeUsers{users: map[int]*models.User{}, nextID: 100}
	add := func(id int, role models.Role, parent *int) {
		f.users[id] = &models.User{ID: id, Name: string(role), Email: fmt.Sprintf("user%d@example.com", id), Role: role, ParentID: parent, IsActive: true}
	}
	add(1, models.RoleAdmin, nil)
	add(2, models.RoleBDP, nil)
	add(3, models.RoleDDP, intPtr(2))
	add(4, models.RoleCustomerPartner, intPtr(3))
	add(5, models.RoleDDP, intPtr(6))
	add(6, models.RoleBDP, nil)
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repositories.ErrConflict
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) Get(_ context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUsers) List(_ context.Context, role models.Role, parentID *int) ([]*models.User, error) {
	out := []*models.User{}
	for _, u := range f.users {
		if role != "" && u.Role != role {
			continue
		}
		if parentID != nil && (u.ParentID == nil || *u.ParentID != *parentID) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) ChildIDs(_ context.Context, parentIDs ...int) ([]int, error) {
	var out []int
	for _, u := range f.users {
		if u.ParentID == nil {
			continue
		}
		for _, p := range parentIDs {
			if *u.ParentID == p {
				out = append(out, u.ID)
			}
		}
	}
	sort.Ints(out)
	return out, nil
}

func (f *fakeUsers) SetActive(_ context.Context, id int, active bool) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (f *fakeUsers) SetTOTPSecret(_ context.Context, id int, secret string) error {
	f.users[id].TOTPSecret = secret
	return nil
}

func (f *fakeUsers) EnableTOTP(_ context.Context, id int) error {
	f.users[id].TOTPEnabled = true
	return nil
}

func (f *fakeUsers) CountByRole(_ context.Context, parentIDs []int) (map[models.Role]int, error) {
	out := map[models.Role]int{}
	for _, u := range f.users {
		if parentIDs != nil {
			if u.ParentID == nil {
				continue
			}
			match := false
			for _, p := range parentIDs {
				match = match || *u.ParentID == p
			}
			if !match {
				continue
			}
		}
		out[u.Role]++
	}
	return out, nil
}

type fakeCustomers struct {
	customers   map[int]*models.Customer
	milestones  map[int][]*models.Milestone
	commissions []*models.Commission
	scores      map[int]int
	nextID      int

	// failTransition makes TransitionStatus fail with the given error
	failTransition error
}

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{
		customers:  map[int]*models.Customer{},
		milestones: map[int][]*models.Milestone{},
		scores:     map[int]int{},
	}
}

func (f *fakeCustomers) put(c *models.Customer) *models.Customer {
	if c.ID == 0 {
		f.nextID++
		c.ID = f.nextID
	}
	f.customers[c.ID] = c
	return c
}

func (f *fakeCustomers) Create(_ context.Context, c *models.Customer, milestones []*models.Milestone) error {
	f.put(c)
	for _, m := range milestones {
		m.CustomerID = c.ID
	}
	f.milestones[c.ID] = milestones
	return nil
}

func (f *fakeCustomers) Get(_ context.Context, id int) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCustomers) List(_ context.Context, filter models.CustomerFilter) ([]*models.Customer, error) {
	out := []*models.Customer{}
	for _, c := range f.customers {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.ReferrerID != nil && (c.ReferrerID == nil || *c.ReferrerID != *filter.ReferrerID) {
			continue
		}
		if filter.DDPIDs != nil {
			match := false
			for _, id := range filter.DDPIDs {
				match = match || c.DDPID == id
			}
			if !match {
				continue
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCustomers) UpdateLeadScore(_ context.Context, id, score int, tier string) error {
	c, ok := f.customers[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.LeadScore = &score
	c.LeadTier = &tier
	f.scores[id] = score
	return nil
}

func (f *fakeCustomers) TransitionStatus(_ context.Context, id int, from, to models.CustomerStatus, commissions []*models.Commission) (*models.Customer, []*models.Commission, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, nil, repositories.ErrNotFound
	}
	if f.failTransition != nil {
		return nil, nil, f.failTransition
	}
	if c.Status != from {
		return nil, nil, repositories.ErrStaleStatus
	}
	c.Status = to
	for i, cm := range commissions {
		cm.ID = len(f.commissions) + i + 1
	}
	f.commissions = append(f.commissions, commissions...)
	cp := *c
	return &cp, commissions, nil
}

func (f *fakeCustomers) CountByStatus(ctx context.Context, filter models.CustomerFilter) (map[models.CustomerStatus]int, error) {
	list, _ := f.List(ctx, filter)
	out := map[models.CustomerStatus]int{}
	for _, c := range list {
		out[c.Status]++
	}
	return out, nil
}

type fakeMilestones struct {
	byID        map[int]*models.Milestone
	assignments *fakeAssignments

	// beforeComplete runs inside Complete, standing in for a concurrent writer
	beforeComplete func(m *models.Milestone)
}

func newFakeMilestones(assignments *fakeAssignments) *fakeMilestones {
	return &fakeMilestones{byID: map[int]*models.Milestone{}, assignments: assignments}
}

// seed gives customerID the full checklist with IDs customerID*100+order.
func (f *fakeMilestones) seed(customerID int) []*models.Milestone {
	ms := models.NewMilestonesFromTemplate(customerID)
	for _, m := range ms {
		m.ID = customerID*100 + m.StepOrder
		f.byID[m.ID] = m
	}
	return ms
}

func (f *fakeMilestones) byKey(customerID int, key string) *models.Milestone {
	for _, m := range f.byID {
		if m.CustomerID == customerID && m.Key == key {
			return m
		}
	}
	return nil
}

func (f *fakeMilestones) ListByCustomer(_ context.Context, customerID int) ([]*models.Milestone, error) {
	out := []*models.Milestone{}
	for _, m := range f.byID {
		if m.CustomerID == customerID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StepOrder < out[j].StepOrder })
	return out, nil
}

func (f *fakeMilestones) Get(_ context.Context, id int) (*models.Milestone, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

// Complete mirrors the guarded UPDATE: a completed milestone comes back
// unchanged, and a failed assignment leaves the milestone as it was.
func (f *fakeMilestones) Complete(ctx context.Context, id int, notes *string, a *models.VendorAssignment) (*models.Milestone, bool, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, false, repositories.ErrNotFound
	}
	if f.beforeComplete != nil {
		f.beforeComplete(m)
	}
	if m.Status == models.MilestoneStatusCompleted {
		cp := *m
		return &cp, false, nil
	}
	if a != nil {
		if err := f.assignments.Create(ctx, a); err != nil {
			return nil, false, err
		}
	}
	m.Status = models.MilestoneStatusCompleted
	if notes != nil {
		m.Notes = notes
	}
	cp := *m
	return &cp, true, nil
}

func (f *fakeMilestones) SetStatus(_ context.Context, id int, status models.MilestoneStatus) (*models.Milestone, error) {
	m, ok := f.byID[id]
	if !ok || m.Status == models.MilestoneStatusCompleted {
		return nil, repositories.ErrNotFound
	}
	m.Status = status
	cp := *m
	return &cp, nil
}

type fakeVendors struct {
	vendors map[int]*models.Vendor
	nextID  int
}

func newFakeVendors(vs ...*models.Vendor) *fakeVendors {
	f := &fakeVendors{vendors: map[int]*models.Vendor{}}
	for _, v := range vs {
		f.vendors[v.ID] = v
		if v.ID > f.nextID {
			f.nextID = v.ID
		}
	}
	return f
}

func (f *fakeVendors) Create(_ context.Context, v *models.Vendor) error {
	f.nextID++
	v.ID = f.nextID
	f.vendors[v.ID] = v
	return nil
}

func (f *fakeVendors) Get(_ context.Context, id int) (*models.Vendor, error) {
	v, ok := f.vendors[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVendors) List(_ context.Context, filter repositories.VendorFilter) ([]*models.Vendor, error) {
	out := []*models.Vendor{}
	for _, v := range f.vendors {
		if filter.VendorType != "" && v.VendorType != filter.VendorType {
			continue
		}
		if filter.ActiveOnly && !v.IsActive {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeVendors) Update(_ context.Context, v *models.Vendor) error {
	if _, ok := f.vendors[v.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.vendors[v.ID] = v
	return nil
}

func (f *fakeVendors) Delete(_ context.Context, id int) error {
	delete(f.vendors, id)
	return nil
}

type fakeAssignments struct {
	byID       map[int]*models.VendorAssignment
	nextID     int
	failCreate error
}

func newFakeAssignments() *fakeAssignments {
	return &fakeAssignments{byID: map[int]*models.VendorAssignment{}}
}

func (f *fakeAssignments) Create(_ context.Context, a *models.VendorAssignment) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.nextID++
	a.ID = f.nextID
	if a.Status == "" {
		a.Status = models.AssignmentStatusAssigned
	}
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAssignments) Get(_ context.Context, id int) (*models.VendorAssignment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAssignments) ListByCustomer(_ context.Context, customerID int) ([]*models.VendorAssignment, error) {
	out := []*models.VendorAssignment{}
	for _, a := range f.byID {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAssignments) Delete(_ context.Context, id int) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeAssignments) UpdateStatus(_ context.Context, id int, from, to models.AssignmentStatus) error {
	a, ok := f.byID[id]
	if !ok || a.Status != from {
		return repositories.ErrConflict
	}
	a.Status = to
	return nil
}

type fakeCommissions struct {
	byID map[int]*models.Commission
}

func (f *fakeCommissions) List(_ context.Context, filter models.CommissionFilter) ([]*models.Commission, error) {
	out := []*models.Commission{}
	for _, cm := range f.byID {
		if filter.PartnerID != nil && cm.PartnerID != *filter.PartnerID {
			continue
		}
		if filter.Status != "" && cm.Status != filter.Status {
			continue
		}
		out = append(out, cm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCommissions) Get(_ context.Context, id int) (*models.Commission, error) {
	cm, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *cm
	return &cp, nil
}

func (f *fakeCommissions) UpdateStatus(_ context.Context, id int, from, to models.CommissionStatus, ref *string) error {
	cm, ok := f.byID[id]
	if !ok || cm.Status != from {
		return repositories.ErrConflict
	}
	cm.Status = to
	cm.PaymentReference = ref
	return nil
}

func (f *fakeCommissions) Summary(context.Context, *int) (models.CommissionSummary, error) {
	return models.CommissionSummary{Count: len(f.byID)}, nil
}

type fakeReferrals struct {
	byID   map[int]*models.Referral
	nextID int
}

func newFakeReferrals() *fakeReferrals {
	return &fakeReferrals{byID: map[int]*models.Referral{}}
}

func (f *fakeReferrals) Create(_ context.Context, rf *models.Referral) error {
	f.nextID++
	rf.ID = f.nextID
	if rf.Status == "" {
		rf.Status = models.ReferralPending
	}
	f.byID[rf.ID] = rf
	return nil
}

func (f *fakeReferrals) Get(_ context.Context, id int) (*models.Referral, error) {
	rf, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *rf
	return &cp, nil
}

func (f *fakeReferrals) List(_ context.Context, referrerIDs []int) ([]*models.Referral, error) {
	out := []*models.Referral{}
	for _, rf := range f.byID {
		if referrerIDs != nil {
			match := false
			for _, id := range referrerIDs {
				match = match || rf.ReferrerID == id
			}
			if !match {
				continue
			}
		}
		out = append(out, rf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeReferrals) UpdateStatus(_ context.Context, id int, status models.ReferralStatus, customerID *int) (*models.Referral, error) {
	rf, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	rf.Status = status
	rf.CustomerID = customerID
	cp := *rf
	return &cp, nil
}

func (f *fakeReferrals) CountByStatus(ctx context.Context, referrerIDs []int) (map[models.ReferralStatus]int, error) {
	list, _ := f.List(ctx, referrerIDs)
	out := map[models.ReferralStatus]int{}
	for _, rf := range list {
		out[rf.Status]++
	}
	return out, nil
}

type fakeOrders struct {
	byID   map[int]*models.Order
	nextID int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byID: map[int]*models.Order{}}
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	f.nextID++
	o.ID = f.nextID
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	f.byID[o.ID] = o
	return nil
}

func (f *fakeOrders) Get(_ context.Context, id int) (*models.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) List(_ context.Context, customerID *int) ([]*models.Order, error) {
	out := []*models.Order{}
	for _, o := range f.byID {
		if customerID == nil || o.CustomerID == *customerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id int, status models.OrderStatus) error {
	o, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	o.Status = status
	return nil
}

type fakePayments struct {
	byOrder map[string]*models.Payment
	nextID  int
}

func newFakePayments() *fakePayments {
	return &fakePayments{byOrder: map[string]*models.Payment{}}
}

func (f *fakePayments) Create(_ context.Context, p *models.Payment) error {
	f.nextID++
	p.ID = f.nextID
	f.byOrder[p.RazorpayOrderID] = p
	return nil
}

func (f *fakePayments) GetByRazorpayOrderID(_ context.Context, id string) (*models.Payment, error) {
	p, ok := f.byOrder[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePayments) ListByOrder(_ context.Context, orderID int) ([]*models.Payment, error) {
	out := []*models.Payment{}
	for _, p := range f.byOrder {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePayments) MarkCaptured(_ context.Context, rzpOrderID, paymentID string, signature, method *string) error {
	p, ok := f.byOrder[rzpOrderID]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Status = models.PaymentCaptured
	p.RazorpayPaymentID = &paymentID
	p.RazorpaySignature = signature
	p.Method = method
	return nil
}

func (f *fakePayments) MarkFailed(_ context.Context, rzpOrderID string, paymentID *string, reason string) error {
	p, ok := f.byOrder[rzpOrderID]
	if !ok {
		return repositories.ErrNotFound
	}
	if p.Status == models.PaymentCaptured {
		return nil
	}
	p.Status = models.PaymentFailed
	p.RazorpayPaymentID = paymentID
	p.FailureReason = &reason
	return nil
}

type recordingNotifier struct {
	sent []*models.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n *models.Notification) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) to(userID int) []*models.Notification {
	var out []*models.Notification
	for _, n := range r.sent {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fixedScorer struct{ res *leadscore.Result }

func (f fixedScorer) Score(_ context.Context, in leadscore.Input) *leadscore.Result {
	if f.res != nil {
		return f.res
	}
	return leadscore.Heuristic(in)
}
