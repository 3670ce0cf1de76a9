package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Outbox,ContractChecker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	namesmetrics "whoami/internal/names/metrics"
	"whoami/internal/names/models"
	"whoami/internal/names/service/mocks"
	aliasstore "whoami/internal/names/store/alias"
	namestore "whoami/internal/names/store/name"
	operatorstore "whoami/internal/names/store/operator"
	outboxstore "whoami/internal/names/store/outbox"
	settingsstore "whoami/internal/names/store/settings"
	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
	"whoami/pkg/requestcontext"
)

// =============================================================================
// Names Service Test Suite
// =============================================================================
// Justification for unit tests: the service coordinates validation, fees,
// hierarchy rules and cascading cleanup across several stores. These tests run
// it against the in-memory stores so every ordering and rollback rule can be
// asserted on the resulting state.

const (
	alice    domain.Address = "juno1a2ce4x5z6q"
	bob      domain.Address = "juno1zzqp8x7v6w"
	admin    domain.Address = "juno1admq9x0xyz"
	contract domain.Address = "juno1qqcxntractz"
	denom                   = "ujuno"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type NamesServiceSuite struct {
	suite.Suite
	names     *namestore.InMemoryStore
	operators *operatorstore.InMemoryStore
	aliases   *aliasstore.InMemoryStore
	settings  *settingsstore.InMemoryStore
	outbox    *outboxstore.InMemoryStore
	metrics   *namesmetrics.Metrics
	service   *Service
	ctx       context.Context
}

func TestNamesServiceSuite(t *testing.T) {
	suite.Run(t, new(NamesServiceSuite))
}

func (s *NamesServiceSuite) SetupTest() {
	s.names = namestore.NewInMemory()
	s.operators = operatorstore.NewInMemory()
	s.aliases = aliasstore.NewInMemory()
	s.settings = settingsstore.NewInMemory()
	s.outbox = outboxstore.NewInMemory()
	s.metrics = namesmetrics.NewWithRegisterer(prometheus.NewRegistry())
	s.ctx = requestcontext.WithTime(context.Background(), testNow)
	s.ctx = requestcontext.WithBlockHeight(s.ctx, 100)

	s.service = s.newService()
	_, err := s.service.Instantiate(s.ctx, Genesis{
		AdminAddress: admin.String(),
		Name:         "whoami",
		Symbol:       "WHO",
		MintingFees: models.MintingFees{
			NativeDenom:    denom,
			NativeDecimals: 6,
		},
	})
	s.Require().NoError(err)
}

func (s *NamesServiceSuite) newService(opts ...Option) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]Option{
		WithLogger(logger),
		WithMetrics(s.metrics),
		WithOutbox(s.outbox),
	}, opts...)
	svc, err := New(s.names, s.operators, s.aliases, s.settings, opts...)
	s.Require().NoError(err)
	return svc
}

func (s *NamesServiceSuite) mint(owner domain.Address, id string) {
	s.T().Helper()
	_, err := s.service.Mint(s.ctx, owner, MintInput{TokenID: id, Owner: owner})
	s.Require().NoError(err)
}

func (s *NamesServiceSuite) mintSub(owner domain.Address, id, parentID string) {
	s.T().Helper()
	_, err := s.service.Mint(s.ctx, owner, MintInput{TokenID: id, Owner: owner, ParentID: parentID})
	s.Require().NoError(err)
}

func (s *NamesServiceSuite) mintPath(owner domain.Address, parentID, segment string) {
	s.T().Helper()
	_, err := s.service.MintPath(s.ctx, owner, MintPathInput{Segment: segment, Owner: owner, ParentID: parentID})
	s.Require().NoError(err)
}

func (s *NamesServiceSuite) setFees(fees models.MintingFees) {
	s.T().Helper()
	_, err := s.service.UpdateMintingFees(s.ctx, admin, fees)
	s.Require().NoError(err)
}

func (s *NamesServiceSuite) numTokens() uint64 {
	s.T().Helper()
	n, err := s.service.NumTokens(s.ctx)
	s.Require().NoError(err)
	return n
}

func (s *NamesServiceSuite) requireCode(err error, code dErrors.Code) {
	s.T().Helper()
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "expected %s, got %v", code, err)
}

func (s *NamesServiceSuite) exists(id string) bool {
	_, err := s.names.FindByID(context.Background(), id)
	return err == nil
}

func ptr[T any](v T) *T {
	return &v
}

// =============================================================================
// Constructor Tests (Invariant Enforcement)
// =============================================================================

func (s *NamesServiceSuite) TestNew() {
	s.Run("nil names store returns error", func() {
		_, err := New(nil, s.operators, s.aliases, s.settings)
		s.ErrorContains(err, "names store is required")
	})

	s.Run("nil operators store returns error", func() {
		_, err := New(s.names, nil, s.aliases, s.settings)
		s.ErrorContains(err, "operators store is required")
	})

	s.Run("nil aliases store returns error", func() {
		_, err := New(s.names, s.operators, nil, s.settings)
		s.ErrorContains(err, "aliases store is required")
	})

	s.Run("nil settings store returns error", func() {
		_, err := New(s.names, s.operators, s.aliases, nil)
		s.ErrorContains(err, "settings store is required")
	})

	s.Run("defaults to an in-memory transaction", func() {
		svc, err := New(s.names, s.operators, s.aliases, s.settings)
		s.Require().NoError(err)
		s.NotNil(svc.tx)
		s.NotNil(svc.contracts)
	})
}

// =============================================================================
// Mint Tests
// =============================================================================

func (s *NamesServiceSuite) TestMint() {
	s.Run("mints a base name to the caller", func() {
		resp, err := s.service.Mint(s.ctx, alice, MintInput{TokenID: "  Alice ", Owner: alice})
		s.Require().NoError(err)
		s.Equal("mint", resp.Action)
		id, _ := resp.Attr("token_id")
		s.Equal("alice", id)
		s.Empty(resp.Messages)

		n, err := s.service.Name(s.ctx, "alice")
		s.Require().NoError(err)
		s.Equal(alice, n.Owner)
		s.Equal(models.KindBase, n.Kind())
		s.Equal(testNow, n.CreatedAt)
		s.Equal(uint64(1), s.numTokens())
		s.Equal(1.0, promtest.ToFloat64(s.metrics.NamesMinted.WithLabelValues("base")))
	})

	s.Run("second mint of the same id is claimed", func() {
		_, err := s.service.Mint(s.ctx, bob, MintInput{TokenID: "alice", Owner: bob})
		s.requireCode(err, dErrors.CodeClaimed)
		n, err := s.service.Name(s.ctx, "alice")
		s.Require().NoError(err)
		s.Equal(alice, n.Owner)
		s.Equal(uint64(1), s.numTokens())
	})

	s.Run("minting to someone else is unauthorized", func() {
		_, err := s.service.Mint(s.ctx, alice, MintInput{TokenID: "gift", Owner: bob})
		s.requireCode(err, dErrors.CodeUnauthorized)
		s.False(s.exists("gift"))
	})

	s.Run("invalid characters are rejected", func() {
		for _, id := range []string{"al__ice", "al.ice", "", "--x", "ali ce"} {
			_, err := s.service.Mint(s.ctx, alice, MintInput{TokenID: id, Owner: alice})
			s.requireCode(err, dErrors.CodeTokenNameInvalid)
		}
	})

	s.Run("names longer than the length cap are rejected", func() {
		_, err := s.service.Mint(s.ctx, alice, MintInput{TokenID: "abcdefghijklmnopqrstu", Owner: alice})
		s.requireCode(err, dErrors.CodeTokenNameInvalid)

		_, err = s.service.Mint(s.ctx, alice, MintInput{TokenID: "abcdefghijklmnopqrst", Owner: alice})
		s.NoError(err)
	})

	s.Run("invalid pgp key is rejected before anything is written", func() {
		_, err := s.service.Mint(s.ctx, alice, MintInput{
			TokenID:  "pgp",
			Owner:    alice,
			Metadata: models.Metadata{PGPPublicKey: "not a key"},
		})
		s.requireCode(err, dErrors.CodeInvalidPGPKey)
		s.False(s.exists("pgp"))
	})

	s.Run("rejected mints are counted by code", func() {
		s.GreaterOrEqual(promtest.ToFloat64(s.metrics.OperationsRejected.WithLabelValues("mint", string(dErrors.CodeClaimed))), 1.0)
	})
}

func (s *NamesServiceSuite) TestMintSubdomain() {
	s.mint(alice, "alice")
	s.mint(bob, "bob")
	s.mintPath(alice, "alice", "docs")

	s.Run("subdomain of an owned name uses the slash separator", func() {
		s.mintSub(alice, "projects", "alice")
		n, err := s.service.Name(s.ctx, "projects")
		s.Require().NoError(err)
		s.Equal(models.KindSubdomain, n.Kind())
		s.Equal("alice", n.ParentID)
		s.Equal(models.SubdomainSeparator, n.Separator)
		s.Equal("alice", n.Metadata.ParentTokenID)
	})

	s.Run("subdomains may nest", func() {
		s.mintSub(alice, "deep", "projects")
		full, err := s.service.ResolveFullPath(s.ctx, "deep")
		s.Require().NoError(err)
		s.Equal("alice/projects/deep", full)
	})

	s.Run("missing parent", func() {
		_, err := s.service.Mint(s.ctx, alice, MintInput{TokenID: "orphan", Owner: alice, ParentID: "nobody"})
		s.requireCode(err, dErrors.CodeMissingParent)
		s.False(s.exists("orphan"))
	})

	s.Run("parent owned by someone else", func() {
		_, err := s.service.Mint(s.ctx, alice, MintInput{TokenID: "squat", Owner: alice, ParentID: "bob"})
		s.requireCode(err, dErrors.CodeUnauthorized)
		s.False(s.exists("squat"))
	})

	s.Run("self parent is a cycle", func() {
		_, err := s.service.Mint(s.ctx, alice, MintInput{TokenID: "loop", Owner: alice, ParentID: "loop"})
		s.requireCode(err, dErrors.CodeCycleDetected)
		s.False(s.exists("loop"))
	})

	s.Run("a path cannot be a subdomain parent", func() {
		_, err := s.service.Mint(s.ctx, alice, MintInput{TokenID: "under-path", Owner: alice, ParentID: "alice::docs"})
		s.requireCode(err, dErrors.CodeCycleDetected)
		s.False(s.exists("under-path"))
	})
}

func (s *NamesServiceSuite) TestMintFees() {
	s.setFees(models.MintingFees{
		BaseMintFee:        ptr(uint64(1_250_333)),
		BurnPercentage:     ptr(uint64(50)),
		ShortNameSurcharge: &models.ShortNameSurcharge{MaxCharacters: 5, Fee: 2_000_000},
	})

	s.Run("short name pays base plus surcharge split between admin and burn", func() {
		resp, err := s.service.Mint(s.ctx, alice, MintInput{
			TokenID: "abcd",
			Owner:   alice,
			Funds:   []models.Coin{{Denom: denom, Amount: 3_250_333}},
		})
		s.Require().NoError(err)
		fee, _ := resp.Attr("fee")
		s.Equal("3250333", fee)

		s.Require().Len(resp.Messages, 2)
		s.Equal(models.MessageBankSend, resp.Messages[0].Kind)
		s.Equal(admin, resp.Messages[0].ToAddress)
		s.Equal([]models.Coin{{Denom: denom, Amount: 1_625_167}}, resp.Messages[0].Amount)
		s.Equal(models.MessageBankBurn, resp.Messages[1].Kind)
		s.Equal([]models.Coin{{Denom: denom, Amount: 1_625_166}}, resp.Messages[1].Amount)

		pending, err := s.outbox.Pending(s.ctx, 0)
		s.Require().NoError(err)
		s.Require().Len(pending, 2)
		s.Equal("mint", pending[0].Action)
		s.Equal("abcd", pending[0].TokenID)
		s.Equal(1_625_167.0, promtest.ToFloat64(s.metrics.FeesCollected.WithLabelValues("admin")))
	})

	s.Run("name at the surcharge threshold pays only the base fee", func() {
		resp, err := s.service.Mint(s.ctx, alice, MintInput{
			TokenID: "abcde",
			Owner:   alice,
			Funds:   []models.Coin{{Denom: denom, Amount: 1_250_333}},
		})
		s.Require().NoError(err)
		fee, _ := resp.Attr("fee")
		s.Equal("1250333", fee)
	})

	s.Run("insufficient payment changes nothing", func() {
		before := s.numTokens()
		pendingBefore, _ := s.outbox.Pending(s.ctx, 0)

		for _, funds := range [][]models.Coin{
			nil,
			{{Denom: denom, Amount: 3_250_332}},
			{{Denom: "uatom", Amount: 9_000_000}},
			{{Denom: denom, Amount: 3_250_333}, {Denom: "uatom", Amount: 1}},
		} {
			_, err := s.service.Mint(s.ctx, bob, MintInput{TokenID: "wxyz", Owner: bob, Funds: funds})
			s.requireCode(err, dErrors.CodeInsufficientFunds)
		}
		s.False(s.exists("wxyz"))
		s.Equal(before, s.numTokens())
		pendingAfter, _ := s.outbox.Pending(s.ctx, 0)
		s.Len(pendingAfter, len(pendingBefore))
	})

	s.Run("paths are free", func() {
		s.mintPath(alice, "abcd", "x")
		s.True(s.exists("abcd::x"))
	})
}

func (s *NamesServiceSuite) TestMintOutboxFailure() {
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	outbox := mocks.NewMockOutbox(ctrl)
	svc := s.newService(WithOutbox(outbox))
	s.setFees(models.MintingFees{BaseMintFee: ptr(uint64(10))})

	outbox.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("outbox unavailable"))

	_, err := svc.Mint(s.ctx, alice, MintInput{
		TokenID: "alice",
		Owner:   alice,
		Funds:   []models.Coin{{Denom: denom, Amount: 10}},
	})
	s.requireCode(err, dErrors.CodeInternal)
	s.False(s.exists("alice"))
	s.Equal(uint64(0), s.numTokens())
}

func (s *NamesServiceSuite) TestTokenCap() {
	s.setFees(models.MintingFees{TokenCap: ptr(uint32(2))})
	s.mint(alice, "alice")
	s.mint(alice, "alice2")

	s.Run("the mint past the cap fails and the count is unchanged", func() {
		_, err := s.service.Mint(s.ctx, alice, MintInput{TokenID: "alice3", Owner: alice})
		s.requireCode(err, dErrors.CodeTokenCapExceeded)
		count, err := s.names.CountByOwner(s.ctx, alice)
		s.Require().NoError(err)
		s.Equal(2, count)
	})

	s.Run("paths are exempt from the cap", func() {
		s.mintPath(alice, "alice", "notes")
	})

	s.Run("other owners are unaffected", func() {
		s.mint(bob, "bob")
	})
}

// =============================================================================
// MintPath Tests
// =============================================================================

func (s *NamesServiceSuite) TestMintPath() {
	s.mint(alice, "alice")
	s.mint(bob, "bob")

	s.Run("path id joins parent and segment", func() {
		resp, err := s.service.MintPath(s.ctx, alice, MintPathInput{Segment: "Plans", Owner: alice, ParentID: "alice"})
		s.Require().NoError(err)
		id, _ := resp.Attr("token_id")
		s.Equal("alice::plans", id)

		n, err := s.service.Name(s.ctx, "alice::plans")
		s.Require().NoError(err)
		s.Equal(models.KindPath, n.Kind())
		s.Equal(models.PathDelimiter, n.Separator)
		s.Equal("alice", n.ParentID)
	})

	s.Run("paths nest under paths", func() {
		s.mintPath(alice, "alice::plans", "phase1")
		full, err := s.service.ResolveFullPath(s.ctx, "alice::plans::phase1")
		s.Require().NoError(err)
		s.Equal("alice::plans::phase1", full)
	})

	s.Run("segments may contain slashes", func() {
		s.mintPath(alice, "alice", "a/b")
	})

	s.Run("missing parent id", func() {
		_, err := s.service.MintPath(s.ctx, alice, MintPathInput{Segment: "x", Owner: alice})
		s.requireCode(err, dErrors.CodeParentNotFound)
	})

	s.Run("unknown parent", func() {
		_, err := s.service.MintPath(s.ctx, alice, MintPathInput{Segment: "x", Owner: alice, ParentID: "ghost"})
		s.requireCode(err, dErrors.CodeMissingParent)
		s.False(s.exists("ghost::x"))
	})

	s.Run("segment equal to the parent is a cycle", func() {
		_, err := s.service.MintPath(s.ctx, alice, MintPathInput{Segment: "alice", Owner: alice, ParentID: "alice"})
		s.requireCode(err, dErrors.CodeCycleDetected)
		s.False(s.exists("alice::alice"))
	})

	s.Run("segment embedding the parent is a cycle", func() {
		_, err := s.service.MintPath(s.ctx, alice, MintPathInput{Segment: "x-alice-y", Owner: alice, ParentID: "alice"})
		s.requireCode(err, dErrors.CodeCycleDetected)
		s.False(s.exists("alice::x-alice-y"))
	})

	s.Run("malformed segments", func() {
		for _, seg := range []string{"-x", "x-", "a//b", "a.b", "a::b"} {
			_, err := s.service.MintPath(s.ctx, alice, MintPathInput{Segment: seg, Owner: alice, ParentID: "alice"})
			s.requireCode(err, dErrors.CodeTokenNameInvalid)
		}
	})

	s.Run("parent owned by someone else", func() {
		_, err := s.service.MintPath(s.ctx, alice, MintPathInput{Segment: "x", Owner: alice, ParentID: "bob"})
		s.requireCode(err, dErrors.CodeUnauthorized)
		s.False(s.exists("bob::x"))
	})

	s.Run("duplicate path is claimed", func() {
		_, err := s.service.MintPath(s.ctx, alice, MintPathInput{Segment: "plans", Owner: alice, ParentID: "alice"})
		s.requireCode(err, dErrors.CodeClaimed)
	})

	s.Run("minting to someone else is unauthorized", func() {
		_, err := s.service.MintPath(s.ctx, alice, MintPathInput{Segment: "gift", Owner: bob, ParentID: "alice"})
		s.requireCode(err, dErrors.CodeUnauthorized)
	})
}

func (s *NamesServiceSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.service.Mint(ctx, alice, MintInput{TokenID: "alice", Owner: alice})
	s.requireCode(err, dErrors.CodeTimeout)
	s.False(s.exists("alice"))
}
