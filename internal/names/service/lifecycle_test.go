package service

import (
	"errors"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"whoami/internal/names/models"
	"whoami/internal/names/service/mocks"
	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
	"whoami/pkg/requestcontext"
)

// =============================================================================
// Transfer, Send and Burn Tests (Cascading Cleanup)
// =============================================================================

// seedTree gives alice a base name with a profile, two levels of paths, a
// subdomain and an explicit primary alias pointing at the base name.
func (s *NamesServiceSuite) seedTree() {
	s.mint(alice, "alice")
	s.mintPath(alice, "alice", "plans")
	s.mintPath(alice, "alice::plans", "phase1")
	s.mintPath(alice, "alice", "notes")
	s.mintSub(alice, "projects", "alice")

	_, err := s.service.UpdateMetadata(s.ctx, alice, "alice", models.Metadata{
		PublicName: "Alice",
		Email:      "alice@example.com",
	})
	s.Require().NoError(err)
	_, err = s.service.UpdatePrimaryAlias(s.ctx, alice, "alice")
	s.Require().NoError(err)
}

func (s *NamesServiceSuite) TestTransferNft() {
	s.seedTree()
	before := s.numTokens()

	resp, err := s.service.TransferNft(s.ctx, alice, "alice", bob)
	s.Require().NoError(err)
	removed, _ := resp.Attr("paths_removed")
	s.Equal("3", removed)

	s.Run("ownership moves to the recipient", func() {
		owner, err := s.service.OwnerOf(s.ctx, "alice", false)
		s.Require().NoError(err)
		s.Equal(bob, owner.Owner)
	})

	s.Run("every descendant path is destroyed", func() {
		paths, err := s.service.PathsForToken(s.ctx, alice, "alice", Page{})
		s.Require().NoError(err)
		s.Empty(paths)
		s.False(s.exists("alice::plans"))
		s.False(s.exists("alice::plans::phase1"))
		s.False(s.exists("alice::notes"))
		s.Equal(before-3, s.numTokens())
		s.Equal(3.0, promtest.ToFloat64(s.metrics.PathsCascaded))
	})

	s.Run("metadata is reset", func() {
		info, err := s.service.NftInfo(s.ctx, "alice")
		s.Require().NoError(err)
		s.True(info.Extension.IsEmpty())
	})

	s.Run("the previous owner's alias is cleared", func() {
		_, err := s.service.PrimaryAlias(s.ctx, alice)
		s.requireCode(err, dErrors.CodeNoPrimaryAlias)
	})

	s.Run("subdomains are not destroyed and keep their owner", func() {
		n, err := s.service.Name(s.ctx, "projects")
		s.Require().NoError(err)
		s.Equal(alice, n.Owner)
		full, err := s.service.ResolveFullPath(s.ctx, "projects")
		s.Require().NoError(err)
		s.Equal("alice/projects", full)
	})

	s.Run("the previous owner can no longer move it", func() {
		_, err := s.service.TransferNft(s.ctx, alice, "alice", alice)
		s.requireCode(err, dErrors.CodeUnauthorized)
	})
}

func (s *NamesServiceSuite) TestTransferNftErrors() {
	s.mint(alice, "alice")

	s.Run("unknown name", func() {
		_, err := s.service.TransferNft(s.ctx, alice, "ghost", bob)
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("stranger cannot transfer", func() {
		_, err := s.service.TransferNft(s.ctx, bob, "alice", bob)
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("recipient is required", func() {
		_, err := s.service.TransferNft(s.ctx, alice, "alice", "")
		s.requireCode(err, dErrors.CodeValidation)
	})
}

func (s *NamesServiceSuite) TestTransferKeepsNonPrimaryAlias() {
	s.mint(alice, "alice")
	s.mint(alice, "second")
	_, err := s.service.UpdatePrimaryAlias(s.ctx, alice, "alice")
	s.Require().NoError(err)

	_, err = s.service.TransferNft(s.ctx, alice, "second", bob)
	s.Require().NoError(err)

	alias, err := s.service.PrimaryAlias(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal("alice", alias)
}

func (s *NamesServiceSuite) TestBurn() {
	s.seedTree()
	s.mint(alice, "zed")
	before := s.numTokens()

	resp, err := s.service.Burn(s.ctx, alice, "alice")
	s.Require().NoError(err)
	removed, _ := resp.Attr("paths_removed")
	s.Equal("3", removed)

	s.False(s.exists("alice"))
	s.False(s.exists("alice::plans::phase1"))
	s.Equal(before-4, s.numTokens())
	s.Equal(1.0, promtest.ToFloat64(s.metrics.NamesBurned))

	s.Run("alias falls back to the remaining base name", func() {
		alias, err := s.service.PrimaryAlias(s.ctx, alice)
		s.Require().NoError(err)
		s.Equal("zed", alias)
	})

	s.Run("orphaned subdomain still resolves to itself", func() {
		full, err := s.service.ResolveFullPath(s.ctx, "projects")
		s.Require().NoError(err)
		s.Equal("projects", full)
	})

	s.Run("the id can be minted again", func() {
		s.mint(bob, "alice")
	})
}

func (s *NamesServiceSuite) TestBurnPathOnly() {
	s.mint(alice, "alice")
	s.mintPath(alice, "alice", "plans")
	s.mintPath(alice, "alice::plans", "phase1")

	_, err := s.service.Burn(s.ctx, alice, "alice::plans")
	s.Require().NoError(err)

	s.True(s.exists("alice"))
	s.False(s.exists("alice::plans"))
	s.False(s.exists("alice::plans::phase1"))
	s.Equal(uint64(1), s.numTokens())
}

func (s *NamesServiceSuite) TestSendNft() {
	s.Run("contract recipient is notified", func() {
		s.SetupTest()
		ctrl := gomock.NewController(s.T())
		defer ctrl.Finish()
		checker := mocks.NewMockContractChecker(ctrl)
		svc := s.newService(WithContractChecker(checker))
		s.mint(alice, "alice")
		s.mintPath(alice, "alice", "plans")

		checker.EXPECT().IsContract(gomock.Any(), contract).Return(true, nil)

		resp, err := svc.SendNft(s.ctx, alice, "alice", contract, []byte(`{"hello":"world"}`))
		s.Require().NoError(err)
		s.Require().Len(resp.Messages, 1)
		msg := resp.Messages[0]
		s.Equal(models.MessageReceiveName, msg.Kind)
		s.Equal(contract, msg.ToAddress)
		s.Equal(alice, msg.Sender)
		s.Equal("alice", msg.TokenID)
		s.JSONEq(`{"hello":"world"}`, string(msg.Msg))

		s.False(s.exists("alice::plans"))
		pending, err := s.outbox.Pending(s.ctx, 0)
		s.Require().NoError(err)
		s.Require().Len(pending, 1)
		s.Equal("send_nft", pending[0].Action)
	})

	s.Run("plain account recipient is not notified", func() {
		s.SetupTest()
		ctrl := gomock.NewController(s.T())
		defer ctrl.Finish()
		checker := mocks.NewMockContractChecker(ctrl)
		svc := s.newService(WithContractChecker(checker))
		s.mint(alice, "alice")

		checker.EXPECT().IsContract(gomock.Any(), bob).Return(false, nil)

		resp, err := svc.SendNft(s.ctx, alice, "alice", bob, nil)
		s.Require().NoError(err)
		s.Empty(resp.Messages)
		owner, err := svc.OwnerOf(s.ctx, "alice", false)
		s.Require().NoError(err)
		s.Equal(bob, owner.Owner)
	})

	s.Run("checker failure aborts the send", func() {
		s.SetupTest()
		ctrl := gomock.NewController(s.T())
		defer ctrl.Finish()
		checker := mocks.NewMockContractChecker(ctrl)
		svc := s.newService(WithContractChecker(checker))
		s.mint(alice, "alice")

		checker.EXPECT().IsContract(gomock.Any(), bob).Return(false, errors.New("boom"))

		_, err := svc.SendNft(s.ctx, alice, "alice", bob, nil)
		s.requireCode(err, dErrors.CodeInternal)
		owner, err := svc.OwnerOf(s.ctx, "alice", false)
		s.Require().NoError(err)
		s.Equal(alice, owner.Owner)
	})

	s.Run("default checker recognises declared contract addresses", func() {
		s.SetupTest()
		s.mint(alice, "alice")
		s.mint(bob, "vault")
		_, err := s.service.UpdateMetadata(s.ctx, bob, "vault", models.Metadata{ContractAddress: contract.String()})
		s.Require().NoError(err)

		resp, err := s.service.SendNft(s.ctx, alice, "alice", contract, []byte("{}"))
		s.Require().NoError(err)
		s.Len(resp.Messages, 1)
	})

	s.Run("nil checker always notifies", func() {
		s.SetupTest()
		svc := s.newService(WithContractChecker(nil))
		s.mint(alice, "alice")

		resp, err := svc.SendNft(s.ctx, alice, "alice", bob, nil)
		s.Require().NoError(err)
		s.Len(resp.Messages, 1)
	})
}

// =============================================================================
// Approval and Operator Tests
// =============================================================================

func (s *NamesServiceSuite) TestApprovals() {
	s.mint(alice, "alice")
	s.mint(alice, "other")

	s.Run("approved spender can transfer and approvals do not follow the name", func() {
		_, err := s.service.Approve(s.ctx, alice, "alice", bob, models.Expiration{})
		s.Require().NoError(err)

		owner, err := s.service.OwnerOf(s.ctx, "alice", false)
		s.Require().NoError(err)
		s.Len(owner.Approvals, 1)

		_, err = s.service.TransferNft(s.ctx, bob, "alice", bob)
		s.Require().NoError(err)

		owner, err = s.service.OwnerOf(s.ctx, "alice", false)
		s.Require().NoError(err)
		s.Equal(bob, owner.Owner)
		s.Empty(owner.Approvals)
	})

	s.Run("revoked approval no longer works", func() {
		_, err := s.service.Approve(s.ctx, alice, "other", bob, models.Expiration{})
		s.Require().NoError(err)
		_, err = s.service.Revoke(s.ctx, alice, "other", bob)
		s.Require().NoError(err)

		_, err = s.service.Burn(s.ctx, bob, "other")
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("expired approval no longer works", func() {
		_, err := s.service.Approve(s.ctx, alice, "other", bob, models.Expiration{AtHeight: ptr(uint64(150))})
		s.Require().NoError(err)

		later := requestcontext.WithBlockHeight(s.ctx, 150)
		_, err = s.service.Burn(later, bob, "other")
		s.requireCode(err, dErrors.CodeUnauthorized)

		owner, err := s.service.OwnerOf(later, "other", false)
		s.Require().NoError(err)
		s.Empty(owner.Approvals)
		owner, err = s.service.OwnerOf(later, "other", true)
		s.Require().NoError(err)
		s.Len(owner.Approvals, 1)
	})

	s.Run("approval already expired is rejected", func() {
		_, err := s.service.Approve(s.ctx, alice, "other", bob, models.Expiration{AtTime: ptr(testNow.Add(-1))})
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("stranger cannot approve", func() {
		_, err := s.service.Approve(s.ctx, bob, "other", bob, models.Expiration{})
		s.requireCode(err, dErrors.CodeUnauthorized)
	})
}

func (s *NamesServiceSuite) TestOperators() {
	s.mint(alice, "alice")
	s.mint(alice, "spare")
	s.mint(alice, "third")

	_, err := s.service.ApproveAll(s.ctx, alice, bob, models.Expiration{AtHeight: ptr(uint64(200))})
	s.Require().NoError(err)

	s.Run("operator can transfer any of the owner's names", func() {
		_, err := s.service.TransferNft(s.ctx, bob, "spare", bob)
		s.Require().NoError(err)
	})

	s.Run("operator can grant approvals on the owner's names", func() {
		_, err := s.service.Approve(s.ctx, bob, "alice", admin, models.Expiration{})
		s.Require().NoError(err)
	})

	s.Run("expired operator grant is ignored", func() {
		later := requestcontext.WithBlockHeight(s.ctx, 200)
		_, err := s.service.Burn(later, bob, "third")
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("revoked operator is unauthorized", func() {
		_, err := s.service.RevokeAll(s.ctx, alice, bob)
		s.Require().NoError(err)
		_, err = s.service.Burn(s.ctx, bob, "third")
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("revoking an absent operator succeeds", func() {
		_, err := s.service.RevokeAll(s.ctx, alice, domain.Address("juno1qqqqqqqq"))
		s.NoError(err)
	})

	s.Run("grant already expired is rejected", func() {
		_, err := s.service.ApproveAll(s.ctx, alice, bob, models.Expiration{AtHeight: ptr(uint64(100))})
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("self grant is rejected", func() {
		_, err := s.service.ApproveAll(s.ctx, alice, alice, models.Expiration{})
		s.requireCode(err, dErrors.CodeValidation)
	})
}

// =============================================================================
// Profile and Primary Alias Tests
// =============================================================================

func (s *NamesServiceSuite) TestUpdateMetadata() {
	s.mint(alice, "alice")
	s.mintSub(alice, "projects", "alice")

	s.Run("parent reference survives a caller-supplied value", func() {
		_, err := s.service.UpdateMetadata(s.ctx, alice, "projects", models.Metadata{
			PublicBio:     "side projects",
			ParentTokenID: "somewhere-else",
		})
		s.Require().NoError(err)

		n, err := s.service.Name(s.ctx, "projects")
		s.Require().NoError(err)
		s.Equal("side projects", n.Metadata.PublicBio)
		s.Equal("alice", n.Metadata.ParentTokenID)
		s.Equal("alice", n.ParentID)
	})

	s.Run("only the owner may update", func() {
		_, err := s.service.UpdateMetadata(s.ctx, bob, "alice", models.Metadata{PublicName: "Bob"})
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("linked logos are rejected", func() {
		_, err := s.service.UpdateMetadata(s.ctx, alice, "alice", models.Metadata{
			ImageData: &models.Logo{Kind: models.LogoURL, URL: "https://example.com/a.png"},
		})
		s.requireCode(err, dErrors.CodeNoLinksPermitted)
	})

	s.Run("unknown name", func() {
		_, err := s.service.UpdateMetadata(s.ctx, alice, "ghost", models.Metadata{})
		s.requireCode(err, dErrors.CodeNotFound)
	})
}

func (s *NamesServiceSuite) TestPrimaryAlias() {
	s.Run("owner without base names has no alias", func() {
		_, err := s.service.PrimaryAlias(s.ctx, alice)
		s.requireCode(err, dErrors.CodeNoPrimaryAlias)
	})

	s.mint(alice, "first")
	s.mint(alice, "second")
	s.mintPath(alice, "first", "p")

	s.Run("falls back to the first minted base name", func() {
		alias, err := s.service.PrimaryAlias(s.ctx, alice)
		s.Require().NoError(err)
		s.Equal("first", alias)

		_, err = s.aliases.Get(s.ctx, alice)
		s.Error(err, "fallback must not be stored")
	})

	s.Run("explicit choice wins", func() {
		resp, err := s.service.UpdatePrimaryAlias(s.ctx, alice, "second")
		s.Require().NoError(err)
		s.Equal("update_preferred_alias", resp.Action)

		alias, err := s.service.PrimaryAlias(s.ctx, alice)
		s.Require().NoError(err)
		s.Equal("second", alias)
	})

	s.Run("paths cannot be primary", func() {
		_, err := s.service.UpdatePrimaryAlias(s.ctx, alice, "first::p")
		s.requireCode(err, dErrors.CodeTokenNameInvalid)
	})

	s.Run("names owned by others cannot be primary", func() {
		s.mint(bob, "bob")
		_, err := s.service.UpdatePrimaryAlias(s.ctx, alice, "bob")
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("burning the explicit primary falls back to the first base name", func() {
		_, err := s.service.Burn(s.ctx, alice, "second")
		s.Require().NoError(err)

		alias, err := s.service.PrimaryAlias(s.ctx, alice)
		s.Require().NoError(err)
		s.Equal("first", alias)

		_, err = s.service.Burn(s.ctx, alice, "first")
		s.Require().NoError(err)
		_, err = s.service.PrimaryAlias(s.ctx, alice)
		s.requireCode(err, dErrors.CodeNoPrimaryAlias)
	})
}

func (s *NamesServiceSuite) TestBurningFirstBaseNameMovesFallback() {
	s.mint(alice, "first")
	s.mint(alice, "second")

	alias, err := s.service.PrimaryAlias(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal("first", alias)

	_, err = s.service.Burn(s.ctx, alice, "first")
	s.Require().NoError(err)

	alias, err = s.service.PrimaryAlias(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal("second", alias)
}
