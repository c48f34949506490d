package stubauth

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "atrium/pkg/domain-errors"
)

type StubAuthSuite struct {
	suite.Suite
	service *Service
}

func TestStubAuthSuite(t *testing.T) {
	suite.Run(t, new(StubAuthSuite))
}

func (s *StubAuthSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(logger)
	s.Require().NoError(s.service.Seed([]SeedAccount{
		{Name: "Admin", Email: "admin@example.com", Password: "admin-password", Role: RoleAdmin},
		{Name: "Taro", Email: "taro@example.com", Password: "taro-password", Role: RoleUser},
	}))
}

func (s *StubAuthSuite) adminToken() string {
	_, session, err := s.service.SignIn("admin@example.com", "admin-password", "127.0.0.1", "test")
	s.Require().NoError(err)
	return session.Token
}

func (s *StubAuthSuite) taroID() string {
	account, err := s.service.accounts.FindByEmail("taro@example.com")
	s.Require().NoError(err)
	return account.ID
}

// =============================================================================
// Sign-In / Sessions
// =============================================================================

func (s *StubAuthSuite) TestSignInWrongPassword() {
	_, _, err := s.service.SignIn("taro@example.com", "wrong-password", "", "")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *StubAuthSuite) TestSignInUnknownEmail() {
	_, _, err := s.service.SignIn("ghost@example.com", "whatever-password", "", "")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *StubAuthSuite) TestSignInBannedAccount() {
	token := s.adminToken()
	s.Require().NoError(s.service.BanUser(token, s.taroID(), "tos violation"))

	_, _, err := s.service.SignIn("taro@example.com", "taro-password", "", "")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *StubAuthSuite) TestResolveRoundTrip() {
	account, session, err := s.service.SignIn("taro@example.com", "taro-password", "10.0.0.9", "TestAgent")
	s.Require().NoError(err)

	resolved, resolvedAccount, err := s.service.Resolve(session.Token)
	s.Require().NoError(err)
	s.Equal(account.ID, resolvedAccount.ID)
	s.Equal("10.0.0.9", resolved.IPAddress)
	s.Equal("TestAgent", resolved.UserAgent)
}

func (s *StubAuthSuite) TestSignOutDropsSession() {
	_, session, err := s.service.SignIn("taro@example.com", "taro-password", "", "")
	s.Require().NoError(err)

	s.service.SignOut(session.Token)
	_, _, err = s.service.Resolve(session.Token)
	s.Error(err)
}

func (s *StubAuthSuite) TestSignUpValidatesPassword() {
	_, _, err := s.service.SignUp("Hana", "hana@example.com", "short", "", "")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *StubAuthSuite) TestSignUpDuplicateEmail() {
	_, _, err := s.service.SignUp("Taro Two", "taro@example.com", "password123", "", "")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

// =============================================================================
// Admin Authorization
// =============================================================================

func (s *StubAuthSuite) TestAdminOpsRequireAdminRole() {
	_, session, err := s.service.SignIn("taro@example.com", "taro-password", "", "")
	s.Require().NoError(err)

	_, _, err = s.service.ListUsers(session.Token, 100, 0)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	err = s.service.BanUser(session.Token, s.taroID(), "")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *StubAuthSuite) TestAdminOpsRequireSession() {
	_, _, err := s.service.ListUsers("no-such-token", 100, 0)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *StubAuthSuite) TestSelfProtection() {
	token := s.adminToken()
	_, admin, err := s.service.Resolve(token)
	s.Require().NoError(err)

	s.True(dErrors.HasCode(s.service.BanUser(token, admin.ID, ""), dErrors.CodeForbidden))
	s.True(dErrors.HasCode(s.service.RemoveUser(token, admin.ID), dErrors.CodeForbidden))
	s.True(dErrors.HasCode(s.service.SetRole(token, admin.ID, RoleUser), dErrors.CodeForbidden))
	_, err = s.service.Impersonate(token, admin.ID, "", "")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

// =============================================================================
// Admin Operations
// =============================================================================

func (s *StubAuthSuite) TestBanRevokesSessions() {
	_, session, err := s.service.SignIn("taro@example.com", "taro-password", "", "")
	s.Require().NoError(err)

	s.Require().NoError(s.service.BanUser(s.adminToken(), s.taroID(), "tos violation"))

	_, _, err = s.service.Resolve(session.Token)
	s.Error(err, "ban must revoke existing sessions")

	account, err := s.service.accounts.FindByID(s.taroID())
	s.Require().NoError(err)
	s.True(account.Banned)
	s.Equal("tos violation", account.BanReason)
}

func (s *StubAuthSuite) TestUnbanClearsReason() {
	token := s.adminToken()
	s.Require().NoError(s.service.BanUser(token, s.taroID(), "tos violation"))
	s.Require().NoError(s.service.UnbanUser(token, s.taroID()))

	account, err := s.service.accounts.FindByID(s.taroID())
	s.Require().NoError(err)
	s.False(account.Banned)
	s.Empty(account.BanReason)
}

func (s *StubAuthSuite) TestSetPasswordTakesEffect() {
	s.Require().NoError(s.service.SetPassword(s.adminToken(), s.taroID(), "new-password-1"))

	_, _, err := s.service.SignIn("taro@example.com", "taro-password", "", "")
	s.Error(err)
	_, _, err = s.service.SignIn("taro@example.com", "new-password-1", "", "")
	s.NoError(err)
}

func (s *StubAuthSuite) TestImpersonationRoundTrip() {
	adminToken := s.adminToken()
	_, admin, err := s.service.Resolve(adminToken)
	s.Require().NoError(err)

	impSession, err := s.service.Impersonate(adminToken, s.taroID(), "", "")
	s.Require().NoError(err)

	session, account, err := s.service.Resolve(impSession.Token)
	s.Require().NoError(err)
	s.Equal(s.taroID(), account.ID)
	s.Equal(admin.ID, session.ImpersonatedBy)

	restored, err := s.service.StopImpersonating(impSession.Token)
	s.Require().NoError(err)
	s.Equal(adminToken, restored.Token)

	_, _, err = s.service.Resolve(impSession.Token)
	s.Error(err, "impersonated session is dropped on stop")
}

func (s *StubAuthSuite) TestStopImpersonatingOnPlainSession() {
	_, err := s.service.StopImpersonating(s.adminToken())
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *StubAuthSuite) TestRemoveUserDropsEverything() {
	_, session, err := s.service.SignIn("taro@example.com", "taro-password", "", "")
	s.Require().NoError(err)

	s.Require().NoError(s.service.RemoveUser(s.adminToken(), s.taroID()))

	_, err = s.service.accounts.FindByEmail("taro@example.com")
	s.Error(err)
	_, _, err = s.service.Resolve(session.Token)
	s.Error(err)
}

func (s *StubAuthSuite) TestListUsersPagination() {
	token := s.adminToken()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := s.service.CreateUser(token, "User", email, "password123", RoleUser)
		s.Require().NoError(err)
	}

	accounts, total, err := s.service.ListUsers(token, 2, 1)
	s.Require().NoError(err)
	s.Equal(5, total)
	s.Len(accounts, 2)
}

// =============================================================================
// Seed File
// =============================================================================

func (s *StubAuthSuite) TestSeedFromFile() {
	path := filepath.Join(s.T().TempDir(), "seed.yaml")
	content := `accounts:
  - name: Hana
    email: hana@example.com
    password: hana-password
    role: admin
  - name: Banned Bob
    email: bob@example.com
    password: bob-password
    banned: true
    ban_reason: abuse
`
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))

	n, err := s.service.SeedFromFile(path)
	s.Require().NoError(err)
	s.Equal(2, n)

	_, _, err = s.service.SignIn("hana@example.com", "hana-password", "", "")
	s.NoError(err)
	_, _, err = s.service.SignIn("bob@example.com", "bob-password", "", "")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}
