package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"library-api/internal/database"
	"library-api/internal/model"
	"library-api/internal/store"
)

/* ---------- 記憶體版資料庫 ---------- */

// memStore 模擬 Postgres 的交易行為：FOR UPDATE 取得的 row lock 持有到 commit/rollback，
// rollback 依序還原交易中的寫入
type memStore struct {
	mu         sync.Mutex
	users      map[int]*model.User
	books      map[int]*model.Book
	categories map[int]*model.Category
	loans      map[int]*model.Loan
	nextID     int
	rowLocks   map[string]*sync.Mutex
	failures   map[string]error
	commits    int
	rollbacks  int
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[int]*model.User{},
		books:      map[int]*model.Book{},
		categories: map[int]*model.Category{},
		loans:      map[int]*model.Loan{},
		rowLocks:   map[string]*sync.Mutex{},
		failures:   map[string]error{},
	}
}

func (s *memStore) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("unexpected Exec")
}
func (s *memStore) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("unexpected Query")
}
func (s *memStore) QueryRow(context.Context, string, ...any) pgx.Row { panic("unexpected QueryRow") }
func (s *memStore) Begin(context.Context) (database.Tx, error) {
	if err := s.fail("Begin"); err != nil {
		return nil, err
	}
	return &memTx{s: s, held: map[string]*sync.Mutex{}}, nil
}
func (s *memStore) Ping(context.Context) error { return nil }
func (s *memStore) Close()                     {}

type memTx struct {
	s    *memStore
	held map[string]*sync.Mutex
	undo []func()
	done bool
}

func (t *memTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("unexpected Exec")
}
func (t *memTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("unexpected Query")
}
func (t *memTx) QueryRow(context.Context, string, ...any) pgx.Row { panic("unexpected QueryRow") }

func (t *memTx) Commit(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	if err := t.s.fail("Commit"); err != nil {
		return err
	}
	t.finish()
	t.s.mu.Lock()
	t.s.commits++
	t.s.mu.Unlock()
	return nil
}

func (t *memTx) Rollback(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.s.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.s.rollbacks++
	t.s.mu.Unlock()
	t.finish()
	return nil
}

func (t *memTx) finish() {
	t.done = true
	for _, m := range t.held {
		m.Unlock()
	}
	t.held = nil
}

// lock 取得 row lock，同一交易重複取得不會阻塞
func (s *memStore) lock(q database.Querier, key string) {
	tx, ok := q.(*memTx)
	if !ok {
		return
	}
	if _, held := tx.held[key]; held {
		return
	}
	s.mu.Lock()
	m, ok := s.rowLocks[key]
	if !ok {
		m = &sync.Mutex{}
		s.rowLocks[key] = m
	}
	s.mu.Unlock()
	m.Lock()
	tx.held[key] = m
}

// journal 記錄還原動作；呼叫時必須持有 s.mu
func (s *memStore) journal(q database.Querier, undo func()) {
	if tx, ok := q.(*memTx); ok {
		tx.undo = append(tx.undo, undo)
	}
}

func (s *memStore) fail(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[op]
}

func (s *memStore) id() int {
	s.nextID++
	return s.nextID
}

func notFound(op string) error  { return fmt.Errorf("%s: %w", op, store.ErrNotFound) }
func duplicate(op string) error { return fmt.Errorf("%s: %w", op, store.ErrDuplicate) }
func reference(op string) error { return fmt.Errorf("%s: %w", op, store.ErrReference) }

func paginate[T any](items []T, page model.PageRequest) model.Page[T] {
	page = page.Normalize()
	total := len(items)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.PageSize
	if end > total {
		end = total
	}
	return model.NewPage(append([]T(nil), items[start:end]...), page, total)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

/* ---------- 種子資料 ---------- */

func (s *memStore) addUser(first, email, password string, admin bool) *model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &model.User{ID: s.id(), FirstName: first, LastName: "Test", Email: email, PasswordHash: string(hash), IsActive: true, IsAdmin: admin, CreatedAt: time.Now().UTC()}
	s.users[u.ID] = u
	cp := *u
	return &cp
}

func (s *memStore) addBook(title, isbn string, quantity int, categoryID *int) *model.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &model.Book{ID: s.id(), Title: title, Author: "Author", ISBN: isbn, Quantity: quantity, Available: quantity, CategoryID: categoryID, CreatedAt: time.Now().UTC()}
	s.books[b.ID] = b
	cp := *b
	return &cp
}

func (s *memStore) addCategory(name string) *model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &model.Category{ID: s.id(), Name: name, CreatedAt: time.Now().UTC()}
	s.categories[c.ID] = c
	cp := *c
	return &cp
}

func (s *memStore) book(id int) model.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.books[id]
}

func (s *memStore) loan(id int) model.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.loans[id]
}

// requireConsistent 檢查每本書 0 <= available <= quantity 且 available = quantity - 未歸還數
func (s *memStore) requireConsistent(t *testing.T) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	outstanding := map[int]int{}
	for _, l := range s.loans {
		if l.ReturnedAt == nil {
			outstanding[l.BookID]++
		}
	}
	for id, b := range s.books {
		require.GreaterOrEqual(t, b.Available, 0, "book %d", id)
		require.LessOrEqual(t, b.Available, b.Quantity, "book %d", id)
		require.Equal(t, b.Quantity-outstanding[id], b.Available, "book %d", id)
	}
}

/* ---------- 替換 store 函式 ---------- */

func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	timeNow = time.Now
	newTokenID = uuid.NewString
	parseWithClaims = jwt.ParseWithClaims

	getUserByID = store.GetUserByID
	getUserByEmail = store.GetUserByEmail
	createUser = store.CreateUser
	updateUserProfile = store.UpdateUserProfile
	updateUserPassword = store.UpdateUserPassword
	updateUserLastLogin = store.UpdateUserLastLogin
	setUserAdmin = store.SetUserAdmin
	setUserActive = store.SetUserActive
	deleteUser = store.DeleteUser
	listUsers = store.ListUsers

	getBookByID = store.GetBookByID
	lockBookByID = store.LockBookByID
	createBook = store.CreateBook
	updateBook = store.UpdateBook
	adjustBookAvailable = store.AdjustBookAvailable
	deleteBook = store.DeleteBook
	listBooks = store.ListBooks

	getCategoryByID = store.GetCategoryByID
	lockCategoryByID = store.LockCategoryByID
	createCategory = store.CreateCategory
	updateCategory = store.UpdateCategory
	deleteCategory = store.DeleteCategory
	countBooksInCategory = store.CountBooksInCategory
	listCategories = store.ListCategories

	createLoan = store.CreateLoan
	getLoanByID = store.GetLoanByID
	lockLoanByID = store.LockLoanByID
	markLoanReturned = store.MarkLoanReturned
	countOutstandingLoansByBook = store.CountOutstandingLoansByBook
	deleteReturnedLoansByBook = store.DeleteReturnedLoansByBook
	lockOutstandingLoansByUser = store.LockOutstandingLoansByUser
	deleteLoansByUser = store.DeleteLoansByUser
	listLoans = store.ListLoans
	listLoanNotices = store.ListLoanNotices
}

func checkBook(op string, b *model.Book) error {
	if b.Quantity < 1 || b.Available < 0 || b.Available > b.Quantity {
		return fmt.Errorf("%s: check constraint books_available_range violated", op)
	}
	return nil
}

// install 將 service 的 store 函式換成 memStore 實作
func install(t *testing.T) *memStore {
	s := newMemStore()
	t.Cleanup(restoreGlobals)

	/* users */
	getUserByID = func(_ context.Context, _ database.Querier, id int) (*model.User, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		u, ok := s.users[id]
		if !ok {
			return nil, notFound("GetUserByID")
		}
		cp := *u
		return &cp, nil
	}
	getUserByEmail = func(_ context.Context, _ database.Querier, email string) (*model.User, error) {
		if err := s.fail("GetUserByEmail"); err != nil {
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, u := range s.users {
			if u.Email == email {
				cp := *u
				return &cp, nil
			}
		}
		return nil, notFound("GetUserByEmail")
	}
	createUser = func(_ context.Context, q database.Querier, u *model.User) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, o := range s.users {
			if o.Email == u.Email {
				return duplicate("CreateUser")
			}
		}
		u.ID = s.id()
		u.CreatedAt = time.Now().UTC()
		cp := *u
		s.users[u.ID] = &cp
		s.journal(q, func() { delete(s.users, cp.ID) })
		return nil
	}
	mutateUser := func(op string, q database.Querier, id int, fn func(*model.User) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		u, ok := s.users[id]
		if !ok {
			return notFound(op)
		}
		before := *u
		if err := fn(u); err != nil {
			*u = before
			return err
		}
		s.journal(q, func() { *u = before })
		return nil
	}
	updateUserProfile = func(_ context.Context, q database.Querier, in *model.User) error {
		return mutateUser("UpdateUserProfile", q, in.ID, func(u *model.User) error {
			for _, o := range s.users {
				if o.ID != in.ID && o.Email == in.Email {
					return duplicate("UpdateUserProfile")
				}
			}
			u.FirstName, u.LastName, u.Email = in.FirstName, in.LastName, in.Email
			return nil
		})
	}
	updateUserPassword = func(_ context.Context, q database.Querier, id int, hash string) error {
		return mutateUser("UpdateUserPassword", q, id, func(u *model.User) error { u.PasswordHash = hash; return nil })
	}
	updateUserLastLogin = func(_ context.Context, q database.Querier, id int, at time.Time) error {
		return mutateUser("UpdateUserLastLogin", q, id, func(u *model.User) error { u.LastLogin = &at; return nil })
	}
	setUserAdmin = func(_ context.Context, q database.Querier, id int, v bool) error {
		return mutateUser("SetUserAdmin", q, id, func(u *model.User) error { u.IsAdmin = v; return nil })
	}
	setUserActive = func(_ context.Context, q database.Querier, id int, v bool) error {
		return mutateUser("SetUserActive", q, id, func(u *model.User) error { u.IsActive = v; return nil })
	}
	deleteUser = func(_ context.Context, q database.Querier, id int) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		u, ok := s.users[id]
		if !ok {
			return notFound("DeleteUser")
		}
		for _, l := range s.loans {
			if l.UserID == id {
				return reference("DeleteUser")
			}
		}
		delete(s.users, id)
		s.journal(q, func() { s.users[id] = u })
		return nil
	}
	listUsers = func(_ context.Context, _ database.Querier, term string, page model.PageRequest) (model.Page[model.User], error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		var out []model.User
		for _, id := range sortedKeys(s.users) {
			u := s.users[id]
			if term == "" || containsFold(u.FirstName, term) || containsFold(u.LastName, term) || containsFold(u.Email, term) {
				out = append(out, *u)
			}
		}
		return paginate(out, page), nil
	}

	/* books */
	getBookByID = func(_ context.Context, _ database.Querier, id int) (*model.Book, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		b, ok := s.books[id]
		if !ok {
			return nil, notFound("GetBookByID")
		}
		cp := *b
		return &cp, nil
	}
	lockBookByID = func(ctx context.Context, tx database.Tx, id int) (*model.Book, error) {
		s.lock(tx, fmt.Sprintf("book:%d", id))
		return getBookByID(ctx, tx, id)
	}
	createBook = func(_ context.Context, q database.Querier, b *model.Book) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, o := range s.books {
			if o.ISBN == b.ISBN {
				return duplicate("CreateBook")
			}
		}
		if b.CategoryID != nil {
			if _, ok := s.categories[*b.CategoryID]; !ok {
				return reference("CreateBook")
			}
		}
		b.ID = s.id()
		b.Available = b.Quantity
		b.CreatedAt = time.Now().UTC()
		if err := checkBook("CreateBook", b); err != nil {
			return err
		}
		cp := *b
		s.books[b.ID] = &cp
		s.journal(q, func() { delete(s.books, cp.ID) })
		return nil
	}
	updateBook = func(_ context.Context, q database.Querier, in *model.Book) error {
		s.lock(q, fmt.Sprintf("book:%d", in.ID))
		s.mu.Lock()
		defer s.mu.Unlock()
		b, ok := s.books[in.ID]
		if !ok {
			return notFound("UpdateBook")
		}
		for _, o := range s.books {
			if o.ID != in.ID && o.ISBN == in.ISBN {
				return duplicate("UpdateBook")
			}
		}
		if err := checkBook("UpdateBook", in); err != nil {
			return err
		}
		before := *b
		*b = *in
		b.CreatedAt = before.CreatedAt
		s.journal(q, func() { *b = before })
		return nil
	}
	adjustBookAvailable = func(_ context.Context, q database.Querier, id, delta int) (int, error) {
		if err := s.fail("AdjustBookAvailable"); err != nil {
			return 0, err
		}
		s.lock(q, fmt.Sprintf("book:%d", id))
		s.mu.Lock()
		defer s.mu.Unlock()
		b, ok := s.books[id]
		if !ok {
			return 0, notFound("AdjustBookAvailable")
		}
		next := min(b.Available+delta, b.Quantity)
		if next < 0 {
			return 0, fmt.Errorf("AdjustBookAvailable: check constraint books_available_range violated")
		}
		before := b.Available
		b.Available = next
		s.journal(q, func() { b.Available = before })
		return next, nil
	}
	deleteBook = func(_ context.Context, q database.Querier, id int) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		b, ok := s.books[id]
		if !ok {
			return notFound("DeleteBook")
		}
		for _, l := range s.loans {
			if l.BookID == id {
				return reference("DeleteBook")
			}
		}
		delete(s.books, id)
		s.journal(q, func() { s.books[id] = b })
		return nil
	}
	listBooks = func(_ context.Context, _ database.Querier, f store.BookFilter, page model.PageRequest) (model.Page[model.Book], error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		var out []model.Book
		for _, id := range sortedKeys(s.books) {
			b := s.books[id]
			if f.CategoryID != nil && (b.CategoryID == nil || *b.CategoryID != *f.CategoryID) {
				continue
			}
			if f.Term != "" && !containsFold(b.Title, f.Term) && !containsFold(b.Author, f.Term) && !containsFold(b.ISBN, f.Term) {
				continue
			}
			out = append(out, *b)
		}
		return paginate(out, page), nil
	}

	/* categories */
	bookCount := func(id int) int {
		n := 0
		for _, b := range s.books {
			if b.CategoryID != nil && *b.CategoryID == id {
				n++
			}
		}
		return n
	}
	getCategoryByID = func(_ context.Context, _ database.Querier, id int) (*model.Category, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		c, ok := s.categories[id]
		if !ok {
			return nil, notFound("GetCategoryByID")
		}
		cp := *c
		cp.BookCount = bookCount(id)
		return &cp, nil
	}
	lockCategoryByID = func(ctx context.Context, tx database.Tx, id int) error {
		s.lock(tx, fmt.Sprintf("category:%d", id))
		_, err := getCategoryByID(ctx, tx, id)
		return err
	}
	createCategory = func(_ context.Context, q database.Querier, c *model.Category) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, o := range s.categories {
			if o.Name == c.Name {
				return duplicate("CreateCategory")
			}
		}
		c.ID = s.id()
		c.CreatedAt = time.Now().UTC()
		cp := *c
		s.categories[c.ID] = &cp
		s.journal(q, func() { delete(s.categories, cp.ID) })
		return nil
	}
	updateCategory = func(_ context.Context, q database.Querier, in *model.Category) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		c, ok := s.categories[in.ID]
		if !ok {
			return notFound("UpdateCategory")
		}
		for _, o := range s.categories {
			if o.ID != in.ID && o.Name == in.Name {
				return duplicate("UpdateCategory")
			}
		}
		before := *c
		c.Name, c.Description = in.Name, in.Description
		s.journal(q, func() { *c = before })
		return nil
	}
	deleteCategory = func(_ context.Context, q database.Querier, id int) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		c, ok := s.categories[id]
		if !ok {
			return notFound("DeleteCategory")
		}
		if bookCount(id) > 0 {
			return reference("DeleteCategory")
		}
		delete(s.categories, id)
		s.journal(q, func() { s.categories[id] = c })
		return nil
	}
	countBooksInCategory = func(_ context.Context, _ database.Querier, id int) (int, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return bookCount(id), nil
	}
	listCategories = func(_ context.Context, _ database.Querier, page model.PageRequest) (model.Page[model.Category], error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		var out []model.Category
		for _, id := range sortedKeys(s.categories) {
			cp := *s.categories[id]
			cp.BookCount = bookCount(id)
			out = append(out, cp)
		}
		return paginate(out, page), nil
	}

	/* loans */
	createLoan = func(_ context.Context, q database.Querier, l *model.Loan) error {
		if err := s.fail("CreateLoan"); err != nil {
			return err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.users[l.UserID]; !ok {
			return reference("CreateLoan")
		}
		if _, ok := s.books[l.BookID]; !ok {
			return reference("CreateLoan")
		}
		l.ID = s.id()
		cp := *l
		s.loans[l.ID] = &cp
		s.journal(q, func() { delete(s.loans, cp.ID) })
		return nil
	}
	getLoanByID = func(_ context.Context, _ database.Querier, id int) (*model.Loan, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		l, ok := s.loans[id]
		if !ok {
			return nil, notFound("GetLoanByID")
		}
		cp := *l
		return &cp, nil
	}
	lockLoanByID = func(ctx context.Context, tx database.Tx, id int) (*model.Loan, error) {
		s.lock(tx, fmt.Sprintf("loan:%d", id))
		return getLoanByID(ctx, tx, id)
	}
	markLoanReturned = func(_ context.Context, q database.Querier, id int, at time.Time) error {
		if err := s.fail("MarkLoanReturned"); err != nil {
			return err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		l, ok := s.loans[id]
		if !ok || l.ReturnedAt != nil {
			return notFound("MarkLoanReturned")
		}
		l.ReturnedAt = &at
		s.journal(q, func() { l.ReturnedAt = nil })
		return nil
	}
	countOutstandingLoansByBook = func(_ context.Context, _ database.Querier, bookID int) (int, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		n := 0
		for _, l := range s.loans {
			if l.BookID == bookID && l.ReturnedAt == nil {
				n++
			}
		}
		return n, nil
	}
	deleteWhere := func(q database.Querier, match func(*model.Loan) bool) int64 {
		var n int64
		for id, l := range s.loans {
			if match(l) {
				delete(s.loans, id)
				s.journal(q, func() { s.loans[id] = l })
				n++
			}
		}
		return n
	}
	deleteReturnedLoansByBook = func(_ context.Context, q database.Querier, bookID int) (int64, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return deleteWhere(q, func(l *model.Loan) bool { return l.BookID == bookID && l.ReturnedAt != nil }), nil
	}
	deleteLoansByUser = func(_ context.Context, q database.Querier, userID int) (int64, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return deleteWhere(q, func(l *model.Loan) bool { return l.UserID == userID }), nil
	}
	lockOutstandingLoansByUser = func(ctx context.Context, tx database.Tx, userID int) ([]model.Loan, error) {
		s.mu.Lock()
		var out []model.Loan
		for _, id := range sortedKeys(s.loans) {
			if l := s.loans[id]; l.UserID == userID && l.ReturnedAt == nil {
				out = append(out, *l)
			}
		}
		s.mu.Unlock()
		sort.SliceStable(out, func(i, j int) bool { return out[i].BookID < out[j].BookID })
		for _, l := range out {
			s.lock(tx, fmt.Sprintf("loan:%d", l.ID))
		}
		return out, nil
	}
	matchLoan := func(l *model.Loan, f store.LoanFilter) bool {
		switch {
		case f.UserID != nil && l.UserID != *f.UserID:
			return false
		case (f.ActiveOnly || f.OverdueAt != nil) && l.ReturnedAt != nil:
			return false
		case f.OverdueAt != nil && !l.DueAt.Before(*f.OverdueAt):
			return false
		case f.DueFrom != nil && l.DueAt.Before(*f.DueFrom):
			return false
		case f.DueBefore != nil && !l.DueAt.Before(*f.DueBefore):
			return false
		}
		return true
	}
	listLoans = func(_ context.Context, _ database.Querier, f store.LoanFilter, page model.PageRequest) (model.Page[model.Loan], error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		var out []model.Loan
		for _, id := range sortedKeys(s.loans) {
			if l := s.loans[id]; matchLoan(l, f) {
				out = append(out, *l)
			}
		}
		return paginate(out, page), nil
	}
	listLoanNotices = func(_ context.Context, _ database.Querier, f store.LoanFilter) ([]model.LoanNotice, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		var out []model.LoanNotice
		for _, id := range sortedKeys(s.loans) {
			l := s.loans[id]
			u := s.users[l.UserID]
			if !matchLoan(l, f) || !u.IsActive {
				continue
			}
			out = append(out, model.LoanNotice{Loan: *l, Email: u.Email, FirstName: u.FirstName, BookTitle: s.books[l.BookID].Title})
		}
		return out, nil
	}

	return s
}
