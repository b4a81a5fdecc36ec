package stubserver

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/educonnect/internal/models"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

type account struct {
	Name         string
	Email        string
	PasswordHash []byte
	Role         models.Role
	Semester     int
	Picture      string
}

type enrollment struct {
	ID       int
	Email    string
	CourseID int
}

type challenge struct {
	Code      string
	ExpiresAt time.Time
}

type verification struct {
	Email     string
	Purpose   models.OTPPurpose
	ExpiresAt time.Time
}

// upload is a stored profile picture.
type upload struct {
	Name    string
	Content []byte
}

// memoryStore is the stub backend's system of record.
type memoryStore struct {
	mu  sync.Mutex
	now func() time.Time

	accounts      map[string]*account
	courses       map[int]*models.Course
	enrollments   map[int]*enrollment
	challenges    map[string]challenge
	verifications map[string]verification
	uploads       map[string]upload
	nextCourse    int
	nextEnroll    int
	otpTTL        time.Duration
}

func newMemoryStore(otpTTL time.Duration) *memoryStore {
	if otpTTL <= 0 {
		otpTTL = 10 * time.Minute
	}
	return &memoryStore{
		now:           time.Now,
		accounts:      make(map[string]*account),
		courses:       make(map[int]*models.Course),
		enrollments:   make(map[int]*enrollment),
		challenges:    make(map[string]challenge),
		verifications: make(map[string]verification),
		uploads:       make(map[string]upload),
		otpTTL:        otpTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func challengeKey(email string, purpose models.OTPPurpose) string {
	return string(purpose) + ":" + normalizeEmail(email)
}

func (s *memoryStore) createAccount(a account, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	a.Email = normalizeEmail(a.Email)
	a.PasswordHash = hash

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[a.Email]; exists {
		return appErrors.Clone(appErrors.ErrConflict, "Email already exists.")
	}
	s.accounts[a.Email] = &a
	return nil
}

func (s *memoryStore) authenticate(email, password string, role models.Role) (*account, error) {
	s.mu.Lock()
	a, ok := s.accounts[normalizeEmail(email)]
	s.mu.Unlock()
	if !ok || a.Role != role {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "Invalid credentials")
	}
	return a, nil
}

func (s *memoryStore) account(email string) (account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[normalizeEmail(email)]
	if !ok {
		return account{}, false
	}
	return *a, true
}

func (s *memoryStore) updateAccount(email string, fn func(a *account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[normalizeEmail(email)]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "User not found")
	}
	fn(a)
	return nil
}

func (s *memoryStore) setPassword(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	return s.updateAccount(email, func(a *account) { a.PasswordHash = hash })
}

// issueOTP stores a fresh four digit code for email and purpose.
func (s *memoryStore) issueOTP(email string, purpose models.OTPPurpose) string {
	code := fmt.Sprintf("%04d", rand.Intn(10000))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[challengeKey(email, purpose)] = challenge{Code: code, ExpiresAt: s.now().Add(s.otpTTL)}
	return code
}

func (s *memoryStore) pendingOTP(email string, purpose models.OTPPurpose) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[challengeKey(email, purpose)]
	if !ok || s.now().After(c.ExpiresAt) {
		return "", false
	}
	return c.Code, true
}

// verifyOTP consumes a matching unexpired code and returns a verification token.
func (s *memoryStore) verifyOTP(email string, purpose models.OTPPurpose, code string) (string, bool) {
	key := challengeKey(email, purpose)
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[key]
	if !ok || s.now().After(c.ExpiresAt) || c.Code != code {
		return "", false
	}
	delete(s.challenges, key)
	token := uuid.NewString()
	s.verifications[token] = verification{Email: normalizeEmail(email), Purpose: purpose, ExpiresAt: s.now().Add(s.otpTTL)}
	return token, true
}

// consumeVerification checks and burns a verification token.
func (s *memoryStore) consumeVerification(token, email string, purpose models.OTPPurpose) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.verifications[token]
	if !ok {
		return false
	}
	delete(s.verifications, token)
	return v.Email == normalizeEmail(email) && v.Purpose == purpose && !s.now().After(v.ExpiresAt)
}

func (s *memoryStore) saveUpload(name string, content []byte) string {
	key := uuid.NewString() + "-" + name
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[key] = upload{Name: name, Content: content}
	return key
}

func (s *memoryStore) upload(key string) (upload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.uploads[key]
	return u, ok
}

func (s *memoryStore) listCourses() []models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedCourses(func(int) bool { return true })
}

func (s *memoryStore) sortedCourses(keep func(id int) bool) []models.Course {
	ids := make([]int, 0, len(s.courses))
	for id := range s.courses {
		if keep(id) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	out := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.courses[id])
	}
	return out
}

func (s *memoryStore) addCourse(in models.CourseInput) models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCourse++
	c := &models.Course{
		ID:         models.ID(strconv.Itoa(s.nextCourse)),
		Name:       in.Name,
		Category:   in.Category,
		Level:      models.Number(in.Level),
		Popularity: models.Number(in.Popularity),
	}
	s.courses[s.nextCourse] = c
	return *c
}

func (s *memoryStore) editCourse(id int, in models.CourseInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Course not found")
	}
	c.Name = in.Name
	c.Category = in.Category
	c.Level = models.Number(in.Level)
	return nil
}

func (s *memoryStore) deleteCourse(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Course not found")
	}
	delete(s.courses, id)
	for eid, e := range s.enrollments {
		if e.CourseID == id {
			delete(s.enrollments, eid)
		}
	}
	return nil
}

func (s *memoryStore) unenrolledCourses(email string) []models.Course {
	email = normalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	taken := make(map[int]struct{})
	for _, e := range s.enrollments {
		if e.Email == email {
			taken[e.CourseID] = struct{}{}
		}
	}
	return s.sortedCourses(func(id int) bool {
		_, ok := taken[id]
		return !ok
	})
}

func (s *memoryStore) enroll(email string, courseID int) (models.Course, error) {
	email = normalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[courseID]
	if !ok {
		return models.Course{}, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
	}
	for _, e := range s.enrollments {
		if e.Email == email && e.CourseID == courseID {
			return models.Course{}, appErrors.Clone(appErrors.ErrConflict, "Already enrolled in this course")
		}
	}
	s.nextEnroll++
	s.enrollments[s.nextEnroll] = &enrollment{ID: s.nextEnroll, Email: email, CourseID: courseID}
	c.Popularity++
	return *c, nil
}

func (s *memoryStore) enrolledCourses(email string) []models.Enrollment {
	email = normalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0)
	for id, e := range s.enrollments {
		if e.Email == email {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	out := make([]models.Enrollment, 0, len(ids))
	for _, id := range ids {
		e := s.enrollments[id]
		c := s.courses[e.CourseID]
		out = append(out, models.Enrollment{
			ID:       models.ID(strconv.Itoa(e.ID)),
			CourseID: c.ID,
			Name:     c.Name,
			Category: c.Category,
			Level:    c.Level,
		})
	}
	return out
}

func (s *memoryStore) unenroll(email string, enrollID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollments[enrollID]
	if !ok || e.Email != normalizeEmail(email) {
		return appErrors.Clone(appErrors.ErrNotFound, "Enrollment not found")
	}
	delete(s.enrollments, enrollID)
	if c, ok := s.courses[e.CourseID]; ok && c.Popularity > 0 {
		c.Popularity--
	}
	return nil
}
