package service

import (
	"fmt"

	"whoami/internal/names/models"
	dErrors "whoami/pkg/domain-errors"
)

// =============================================================================
// Query Surface Tests
// =============================================================================

func (s *NamesServiceSuite) TestResolveFullPath() {
	s.mint(alice, "alice")
	s.mintSub(alice, "projects", "alice")
	s.mintPath(alice, "projects", "plans")
	s.mintPath(alice, "projects::plans", "phase1")

	s.Run("base name is its own path and display is stable", func() {
		first, err := s.service.ResolveFullPath(s.ctx, "alice")
		s.Require().NoError(err)
		s.Equal("alice", first)
		second, err := s.service.ResolveFullPath(s.ctx, "alice")
		s.Require().NoError(err)
		s.Equal(first, second)
	})

	s.Run("path under a subdomain never repeats a namespace", func() {
		full, err := s.service.ResolveFullPath(s.ctx, "projects::plans::phase1")
		s.Require().NoError(err)
		s.Equal("alice/projects::plans::phase1", full)
	})

	s.Run("unknown id", func() {
		_, err := s.service.ResolveFullPath(s.ctx, "ghost")
		s.requireCode(err, dErrors.CodeNotFound)
	})
}

func (s *NamesServiceSuite) TestParentQueries() {
	s.mint(alice, "alice")
	s.mintSub(alice, "projects", "alice")

	s.Run("parent id of a subdomain", func() {
		parent, err := s.service.GetParentId(s.ctx, "projects")
		s.Require().NoError(err)
		s.Equal("alice", parent)
	})

	s.Run("parent info carries the parent record", func() {
		info, err := s.service.GetParentInfo(s.ctx, "projects")
		s.Require().NoError(err)
		s.Equal("alice", info.ParentID)
		s.Equal(alice, info.Parent.Owner)
	})

	s.Run("base names have no parent", func() {
		_, err := s.service.GetParentId(s.ctx, "alice")
		s.requireCode(err, dErrors.CodeNotFound)
		_, err = s.service.GetParentInfo(s.ctx, "alice")
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("burned parent is reported missing", func() {
		_, err := s.service.Burn(s.ctx, alice, "alice")
		s.Require().NoError(err)
		_, err = s.service.GetParentInfo(s.ctx, "projects")
		s.requireCode(err, dErrors.CodeMissingParent)
	})
}

func (s *NamesServiceSuite) TestContractQueries() {
	s.mint(alice, "alice")
	s.mint(alice, "vault")
	_, err := s.service.UpdateMetadata(s.ctx, alice, "vault", models.Metadata{
		ContractAddress:          contract.String(),
		ValidatorOperatorAddress: "junovaloper1qqqqqq",
	})
	s.Require().NoError(err)

	s.Run("name without a contract address", func() {
		_, err := s.service.IsContract(s.ctx, "alice")
		s.requireCode(err, dErrors.CodeNotFound)
		s.ErrorContains(err, "No contract address")
	})

	s.Run("declared contract address", func() {
		addr, err := s.service.IsContract(s.ctx, "vault")
		s.Require().NoError(err)
		s.Equal(contract.String(), addr)
	})

	s.Run("address of returns every declared address", func() {
		out, err := s.service.AddressOf(s.ctx, "vault")
		s.Require().NoError(err)
		s.Equal(alice, out.Owner)
		s.Equal(contract.String(), out.ContractAddress)
		s.Equal("junovaloper1qqqqqq", out.ValidatorOperatorAddress)
	})
}

func (s *NamesServiceSuite) TestListings() {
	for _, id := range []string{"a1", "a2", "a3"} {
		s.mint(alice, id)
	}
	s.mintSub(alice, "sub", "a1")
	s.mintPath(alice, "a1", "x")
	s.mintPath(alice, "a1::x", "y")
	s.mintPath(alice, "a2", "z")
	s.mint(bob, "b1")

	s.Run("base tokens in mint order", func() {
		ids, err := s.service.BaseTokens(s.ctx, alice, Page{})
		s.Require().NoError(err)
		s.Equal([]string{"a1", "a2", "a3"}, ids)
	})

	s.Run("base tokens paginate with an exclusive cursor", func() {
		ids, err := s.service.BaseTokens(s.ctx, alice, Page{StartAfter: "a1", Limit: ptr(uint32(1))})
		s.Require().NoError(err)
		s.Equal([]string{"a2"}, ids)
	})

	s.Run("paths for a token include nested paths only under it", func() {
		ids, err := s.service.PathsForToken(s.ctx, alice, "a1", Page{})
		s.Require().NoError(err)
		s.Equal([]string{"a1::x", "a1::x::y"}, ids)
	})

	s.Run("all paths of an owner", func() {
		ids, err := s.service.Paths(s.ctx, alice, Page{})
		s.Require().NoError(err)
		s.Equal([]string{"a1::x", "a1::x::y", "a2::z"}, ids)
	})

	s.Run("tokens of an owner include every kind", func() {
		ids, err := s.service.Tokens(s.ctx, alice, Page{})
		s.Require().NoError(err)
		s.Len(ids, 7)
	})

	s.Run("page size is capped", func() {
		ids, err := s.service.AllTokens(s.ctx, Page{Limit: ptr(uint32(1000))})
		s.Require().NoError(err)
		s.Len(ids, 8)
	})

	s.Run("num tokens counts every record", func() {
		s.Equal(uint64(8), s.numTokens())
	})

	s.Run("contract info", func() {
		info, err := s.service.ContractInfo(s.ctx)
		s.Require().NoError(err)
		s.Equal("whoami", info.Name)
		s.Equal("WHO", info.Symbol)
	})

	s.Run("all nft info", func() {
		info, err := s.service.AllNftInfo(s.ctx, "a1", false)
		s.Require().NoError(err)
		s.Equal(alice, info.Access.Owner)
		s.Empty(info.Info.TokenURI)
	})
}

func (s *NamesServiceSuite) TestZeroLimitIsNotUnlimited() {
	s.mint(alice, "alice")
	for i := 0; i < 40; i++ {
		s.mintPath(alice, "alice", fmt.Sprintf("p%02d", i))
	}

	ids, err := s.service.PathsForToken(s.ctx, alice, "alice", Page{Limit: ptr(uint32(0))})
	s.Require().NoError(err)
	s.Len(ids, models.DefaultListLimit)

	ids, err = s.service.PathsForToken(s.ctx, alice, "alice", Page{Limit: ptr(uint32(100))})
	s.Require().NoError(err)
	s.Len(ids, models.MaxListLimit)
}
