package usecase_test

import (
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/minicrm-api/internal/application/notify"
	"github.com/jhoicas/minicrm-api/internal/domain"
	"github.com/jhoicas/minicrm-api/internal/domain/entity"
	"github.com/jhoicas/minicrm-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia. Replican el contrato de la
// implementación Postgres: GetBy* devuelve (nil, nil) si no existe, Create y
// Update devuelven ErrEmailAlreadyExists ante un email duplicado, y List aplica
// scope → search → sort → paginación en ese orden.
// ──────────────────────────────────────────────────────────────────────────────

func strPtr(s string) *string { return &s }

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func paginate[T any](items []T, opts repository.ListOptions) []T {
	start := opts.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + opts.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ── fakeCompanyRepo ───────────────────────────────────────────────────────────

type fakeCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*entity.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[string]*entity.Company)}
}

var _ repository.CompanyRepository = (*fakeCompanyRepo)(nil)

func (r *fakeCompanyRepo) Create(c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.companies {
		if o.Email == c.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *c
	r.companies[c.ID] = &cp
	return nil
}

func (r *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCompanyRepo) GetByEmail(email string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCompanyRepo) Update(c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.companies {
		if o.ID != c.ID && o.Email == c.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *c
	r.companies[c.ID] = &cp
	return nil
}

func (r *fakeCompanyRepo) List(opts repository.ListOptions) ([]*entity.Company, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Company
	for _, c := range r.companies {
		if opts.Scope != nil && c.ID != *opts.Scope {
			continue
		}
		if opts.Search != "" && !containsFold(c.Name, opts.Search) && !containsFold(c.Email, opts.Search) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	total := len(out)
	return paginate(out, opts), total, nil
}

func (r *fakeCompanyRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.companies, id)
	return nil
}

func (r *fakeCompanyRepo) Exists(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.companies[id]
	return ok, nil
}

// ── fakeEmployeeRepo ──────────────────────────────────────────────────────────

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees map[string]*entity.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]*entity.Employee)}
}

var _ repository.EmployeeRepository = (*fakeEmployeeRepo)(nil)

func (r *fakeEmployeeRepo) Create(e *entity.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.employees {
		if o.Email == e.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *e
	r.employees[e.ID] = &cp
	return nil
}

func (r *fakeEmployeeRepo) GetByID(id string) (*entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEmployeeRepo) GetByEmail(email string) (*entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeEmployeeRepo) Update(e *entity.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.employees {
		if o.ID != e.ID && o.Email == e.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *e
	r.employees[e.ID] = &cp
	return nil
}

func (r *fakeEmployeeRepo) List(opts repository.ListOptions) ([]*entity.Employee, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Employee
	for _, e := range r.employees {
		if opts.Scope != nil && e.CompanyID != *opts.Scope {
			continue
		}
		if opts.Search != "" &&
			!containsFold(e.FirstName, opts.Search) &&
			!containsFold(e.LastName, opts.Search) &&
			!containsFold(e.Email, opts.Search) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	total := len(out)
	return paginate(out, opts), total, nil
}

func (r *fakeEmployeeRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.employees, id)
	return nil
}

// ── fakeUserRepo ──────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.users {
		if o.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.users {
		if o.ID != u.ID && o.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List(opts repository.ListOptions) ([]*entity.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.users {
		// Scope por empresa: los admins (sin empresa) quedan fuera.
		if opts.Scope != nil && (u.CompanyID == nil || *u.CompanyID != *opts.Scope) {
			continue
		}
		if opts.Search != "" && !containsFold(u.Name, opts.Search) && !containsFold(u.Email, opts.Search) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	total := len(out)
	return paginate(out, opts), total, nil
}

func (r *fakeUserRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

// ── fakeNotifier ──────────────────────────────────────────────────────────────

// fakeNotifier captura las notificaciones enviadas; done permite esperar el
// envío en background sin sleeps.
type fakeNotifier struct {
	mu      sync.Mutex
	notices []notify.EmployeeCreatedNotice
	failErr error
	done    chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan struct{}, 16)}
}

var _ notify.Notifier = (*fakeNotifier)(nil)

func (n *fakeNotifier) EmployeeCreated(notice notify.EmployeeCreatedNotice) error {
	n.mu.Lock()
	n.notices = append(n.notices, notice)
	err := n.failErr
	n.mu.Unlock()
	n.done <- struct{}{}
	return err
}

func (n *fakeNotifier) sent() []notify.EmployeeCreatedNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.EmployeeCreatedNotice, len(n.notices))
	copy(out, n.notices)
	return out
}
