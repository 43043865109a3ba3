//go:build integration

package organization_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"chorale/internal/org/models"
	"chorale/internal/org/store/organization"
	"chorale/pkg/domain"
	"chorale/pkg/platform/sentinel"
	"chorale/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *organization.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = organization.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.postgres != nil {
		_ = s.postgres.DB.Close()
		_ = s.postgres.Container.Terminate(context.Background())
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func newTestOrg(name string) *models.Organization {
	now := time.Now().UTC()
	return &models.Organization{
		ID:           domain.NewOrganizationID(),
		Name:         name,
		Verification: domain.VerificationPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// TestConcurrentUniqueNameViolation verifies that concurrent creation attempts
// with the same name result in exactly one success.
func (s *PostgresStoreSuite) TestConcurrentUniqueNameViolation() {
	ctx := context.Background()
	name := "Concurrent Parish " + uuid.NewString()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.CreateIfNameAvailable(ctx, newTestOrg(name))
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrAlreadyUsed) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get conflict error")

	found, err := s.store.FindByName(ctx, name)
	s.Require().NoError(err)
	s.Equal(name, found.Name)
}

// TestCaseInsensitiveUniqueness verifies the functional unique index on
// lower(name).
func (s *PostgresStoreSuite) TestCaseInsensitiveUniqueness() {
	ctx := context.Background()
	baseName := "CaseTest" + uuid.NewString()

	first := newTestOrg(baseName)
	s.Require().NoError(s.store.CreateIfNameAvailable(ctx, first))

	for _, name := range []string{strings.ToUpper(baseName), strings.ToLower(baseName)} {
		err := s.store.CreateIfNameAvailable(ctx, newTestOrg(name))
		s.ErrorIs(err, sentinel.ErrAlreadyUsed, "name %q should conflict with %q", name, baseName)

		found, err := s.store.FindByName(ctx, name)
		s.Require().NoError(err)
		s.Equal(first.ID, found.ID)
	}
}

// TestExecuteSerializesVerification verifies that concurrent verification
// transitions through Execute settle on a single consistent state.
func (s *PostgresStoreSuite) TestExecuteSerializesVerification() {
	ctx := context.Background()
	org := newTestOrg("Execute Test " + uuid.NewString())
	s.Require().NoError(s.store.CreateIfNameAvailable(ctx, org))

	const goroutines = 20
	var wg sync.WaitGroup
	var applied atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			status := domain.VerificationVerified
			if idx%2 == 1 {
				status = domain.VerificationRejected
			}
			_, err := s.store.Execute(ctx, org.ID,
				func(o *models.Organization) error { return o.CanSetVerification(status) },
				func(o *models.Organization) { o.ApplyVerification(status, time.Now().UTC()) },
			)
			if err == nil {
				applied.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Positive(applied.Load())
	found, err := s.store.FindByID(ctx, org.ID)
	s.Require().NoError(err)
	s.Contains([]domain.VerificationStatus{domain.VerificationVerified, domain.VerificationRejected}, found.Verification)
}

func (s *PostgresStoreSuite) TestNotFound() {
	ctx := context.Background()

	_, err := s.store.FindByID(ctx, domain.NewOrganizationID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByName(ctx, "Ghost Parish "+uuid.NewString())
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.ErrorIs(s.store.Update(ctx, newTestOrg("Ghost Parish")), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListOrdersByName() {
	ctx := context.Background()
	for _, name := range []string{"Zion Chapel", "abbey Road Parish", "Mercy Cathedral"} {
		s.Require().NoError(s.store.CreateIfNameAvailable(ctx, newTestOrg(name)))
	}

	orgs, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(orgs, 3)
	s.Equal("abbey Road Parish", orgs[0].Name)
	s.Equal("Mercy Cathedral", orgs[1].Name)
	s.Equal("Zion Chapel", orgs[2].Name)
}
