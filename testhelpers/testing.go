package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"laine/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestSigningKey signs session tokens minted in tests
var TestSigningKey = []byte("laine-test-signing-key")

// Session describes the claims of a minted session token
type Session struct {
	UserID      string
	SessionID   string
	OrgID       string
	OrgSlug     string
	OrgRole     string
	Permissions []string
	ExpiresIn   time.Duration
}

// AdminSession is an organization admin with billing access
func AdminSession() Session {
	return Session{
		UserID:      "user_admin",
		SessionID:   "sess_1",
		OrgID:       "org_acme",
		OrgSlug:     "acme-dental",
		OrgRole:     "org:admin",
		Permissions: []string{"org:sys_billing:read", "org:sys_memberships:read"},
	}
}

// MemberSession is a basic organization member
func MemberSession() Session {
	return Session{
		UserID:  "user_member",
		OrgID:   "org_acme",
		OrgSlug: "acme-dental",
		OrgRole: "org:member",
	}
}

// NoOrgSession is a signed-in user who has not onboarded yet
func NoOrgSession() Session {
	return Session{UserID: "user_new"}
}

// MintSessionToken signs an HS256 session token with TestSigningKey
func MintSessionToken(t *testing.T, s Session) string {
	t.Helper()

	expiresIn := s.ExpiresIn
	if expiresIn == 0 {
		expiresIn = time.Hour
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": s.UserID,
		"iat": now.Unix(),
		"nbf": now.Add(-time.Minute).Unix(),
		"exp": now.Add(expiresIn).Unix(),
	}
	if s.SessionID != "" {
		claims["sid"] = s.SessionID
	}
	if s.OrgID != "" {
		claims["org_id"] = s.OrgID
		claims["org_slug"] = s.OrgSlug
		claims["org_role"] = s.OrgRole
		claims["org_permissions"] = s.Permissions
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(TestSigningKey)
	if err != nil {
		t.Fatalf("Failed to sign session token: %v", err)
	}
	return token
}

// KeyFunc verifies tokens minted by MintSessionToken
func KeyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return TestSigningKey, nil
}

// NewPracticeForm returns a valid form for the named practice
func NewPracticeForm(name string) *models.PracticeForm {
	form := models.NewDefaultPracticeForm()
	form.Name = name
	form.Address = "100 Main St"
	form.City = "Austin"
	form.State = "TX"
	form.Doctors = "Dr. Smith"
	form.InNetworkPPOs = []string{"Aetna", "Delta Dental"}
	form.OfferedAppointmentTypes = []string{"Cleaning", "Emergency"}
	return form
}

// NewPractice returns a stored practice for the organization
func NewPractice(orgID, name string) *models.Practice {
	p := NewPracticeForm(name).ToPractice(orgID)
	p.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p.UpdatedAt = p.CreatedAt
	return p
}

// SetupTestDB connects to TEST_DATABASE_URL, skipping the test when it is unset
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}
