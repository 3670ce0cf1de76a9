//go:build integration

package name_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"whoami/internal/names/models"
	"whoami/internal/names/store/name"
	"whoami/pkg/domain"
	"whoami/pkg/platform/sentinel"
	txcontext "whoami/pkg/platform/tx"
	"whoami/pkg/testutil/containers"
)

const (
	alice domain.Address = "juno1a2ce4x5z6q"
	bob   domain.Address = "juno1zzqp8x7v6w"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *name.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = name.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "names"))
	_, err := s.postgres.DB.ExecContext(ctx, `UPDATE registry_counters SET value = 0 WHERE name = 'num_tokens'`)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) create(id string, owner domain.Address, parentID string, md models.Metadata) *models.Name {
	n, err := models.NewName(id, owner, parentID, "", md, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateIfAbsent(context.Background(), n))
	return n
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	s.create("alice", alice, "", models.Metadata{})
	sub := s.create("projects", alice, "alice", models.Metadata{
		PublicName: "Projects",
		PublicBio:  "work",
	})
	s.Positive(sub.Seq)

	got, err := s.store.FindByID(ctx, "projects")
	s.Require().NoError(err)
	s.Equal(alice, got.Owner)
	s.Equal("alice", got.ParentID)
	s.Equal(models.SubdomainSeparator, got.Separator)
	s.Equal(models.KindSubdomain, got.Kind())
	s.Equal("Projects", got.Metadata.PublicName)
	s.Equal("alice", got.Metadata.ParentTokenID)
	s.Equal(sub.Seq, got.Seq)

	_, err = s.store.FindByID(ctx, "ghost")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestCreateIfAbsentRejectsExisting() {
	s.create("alice", alice, "", models.Metadata{})

	n, err := models.NewName("alice", bob, "", "", models.Metadata{}, time.Now())
	s.Require().NoError(err)
	s.ErrorIs(s.store.CreateIfAbsent(context.Background(), n), sentinel.ErrAlreadyUsed)
}

// TestConcurrentCreateSingleWinner verifies the primary key decides races
// between writers that each saw the id as free.
func (s *PostgresStoreSuite) TestConcurrentCreateSingleWinner() {
	const goroutines = 20
	var wg sync.WaitGroup
	var wins, conflicts atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := models.NewName("contested", alice, "", "", models.Metadata{}, time.Now())
			if err != nil {
				return
			}
			switch err := s.store.CreateIfAbsent(context.Background(), n); {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
}

func (s *PostgresStoreSuite) TestUpdateKeepsParentRelation() {
	ctx := context.Background()
	s.create("alice", alice, "", models.Metadata{})
	sub := s.create("projects", alice, "alice", models.Metadata{})

	sub.ParentID = ""
	sub.ApplyTransfer(bob)
	sub.Metadata.PublicName = "Moved"
	s.Require().NoError(s.store.Update(ctx, sub))

	got, err := s.store.FindByID(ctx, "projects")
	s.Require().NoError(err)
	s.Equal(bob, got.Owner)
	s.Equal("alice", got.ParentID)
	s.Equal("Moved", got.Metadata.PublicName)

	s.ErrorIs(s.store.Update(ctx, &models.Name{ID: "ghost", Owner: bob}), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListingAndCounts() {
	ctx := context.Background()
	s.create("a1", alice, "", models.Metadata{})
	s.create("b1", bob, "", models.Metadata{})
	s.create("a1::x", alice, "a1", models.Metadata{})
	s.create("a2", alice, "", models.Metadata{})

	base := models.KindBase
	got, err := s.store.ListByOwner(ctx, alice, models.ListFilter{Kind: &base})
	s.Require().NoError(err)
	s.Equal([]string{"a1", "a2"}, ids(got))

	got, err = s.store.ListByOwner(ctx, alice, models.ListFilter{Prefix: "a1::"})
	s.Require().NoError(err)
	s.Equal([]string{"a1::x"}, ids(got))

	got, err = s.store.ListAll(ctx, models.ListFilter{StartAfter: "a1", Limit: 2})
	s.Require().NoError(err)
	s.Equal([]string{"b1", "a1::x"}, ids(got))

	count, err := s.store.CountByOwner(ctx, alice)
	s.Require().NoError(err)
	s.Equal(3, count)

	removed, err := s.store.DeleteMany(ctx, []string{"a1", "a1::x", "missing"})
	s.Require().NoError(err)
	s.Equal(2, removed)
	s.ErrorIs(s.store.Delete(ctx, "a1"), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestFindByContractAddress() {
	ctx := context.Background()
	s.create("vault", alice, "", models.Metadata{ContractAddress: bob.String()})

	got, err := s.store.FindByContractAddress(ctx, bob)
	s.Require().NoError(err)
	s.Equal("vault", got.ID)

	_, err = s.store.FindByContractAddress(ctx, alice)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestTokenCounterInTransaction() {
	ctx := context.Background()

	count, err := s.store.AddTokens(ctx, 2)
	s.Require().NoError(err)
	s.Equal(uint64(2), count)

	tx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	txCtx := txcontext.WithTx(ctx, tx)
	_, err = s.store.AddTokens(txCtx, 5)
	s.Require().NoError(err)
	s.Require().NoError(tx.Rollback())

	count, err = s.store.TokenCount(ctx)
	s.Require().NoError(err)
	s.Equal(uint64(2), count)

	_, err = s.store.AddTokens(ctx, -3)
	s.ErrorIs(err, sentinel.ErrConflict)
}

func ids(names []*models.Name) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n.ID)
	}
	return out
}
