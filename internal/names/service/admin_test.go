package service

import (
	"context"
	"strconv"

	"whoami/internal/names/models"
	settingsstore "whoami/internal/names/store/settings"
	dErrors "whoami/pkg/domain-errors"
)

// =============================================================================
// Admin Operation Tests (Capability Enforcement)
// =============================================================================

func (s *NamesServiceSuite) TestInstantiate() {
	s.Run("existing settings are kept", func() {
		settings, err := s.service.Instantiate(s.ctx, Genesis{
			AdminAddress: bob.String(),
			MintingFees:  models.MintingFees{NativeDenom: "uother"},
		})
		s.Require().NoError(err)
		s.Equal(admin, settings.AdminAddress)
		s.Equal(denom, settings.MintingFees.NativeDenom)
	})

	s.Run("invalid admin address", func() {
		svc, err := New(s.names, s.operators, s.aliases, settingsstore.NewInMemory())
		s.Require().NoError(err)
		_, err = svc.Instantiate(s.ctx, Genesis{
			AdminAddress: "Not-An-Address",
			MintingFees:  models.MintingFees{NativeDenom: denom},
		})
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("length cap below the default is raised to it", func() {
		svc, err := New(s.names, s.operators, s.aliases, settingsstore.NewInMemory())
		s.Require().NoError(err)
		settings, err := svc.Instantiate(s.ctx, Genesis{
			AdminAddress:      admin.String(),
			MintingFees:       models.MintingFees{NativeDenom: denom},
			UsernameLengthCap: 5,
		})
		s.Require().NoError(err)
		s.Equal(models.DefaultUsernameLengthCap, settings.UsernameLengthCap)
	})

	s.Run("operations before instantiation fail", func() {
		svc, err := New(s.names, s.operators, s.aliases, settingsstore.NewInMemory())
		s.Require().NoError(err)
		_, err = svc.Mint(context.Background(), alice, MintInput{TokenID: "alice", Owner: alice})
		s.requireCode(err, dErrors.CodeInternal)
	})
}

func (s *NamesServiceSuite) TestUpdateMintingFees() {
	s.setFees(models.MintingFees{
		TokenCap:       ptr(uint32(5)),
		BaseMintFee:    ptr(uint64(100)),
		BurnPercentage: ptr(uint64(10)),
	})

	s.Run("update replaces the whole schedule and keeps the denom", func() {
		s.setFees(models.MintingFees{
			NativeDenom:        "uevil",
			ShortNameSurcharge: &models.ShortNameSurcharge{MaxCharacters: 3, Fee: 7},
		})
		fees, err := s.service.MintingFees(s.ctx)
		s.Require().NoError(err)
		s.Equal(denom, fees.NativeDenom)
		s.Equal(uint8(6), fees.NativeDecimals)
		s.Nil(fees.TokenCap)
		s.Nil(fees.BaseMintFee)
		s.Nil(fees.BurnPercentage)
		s.Require().NotNil(fees.ShortNameSurcharge)
		s.Equal(uint64(7), fees.ShortNameSurcharge.Fee)
	})

	s.Run("non admin is unauthorized", func() {
		_, err := s.service.UpdateMintingFees(s.ctx, alice, models.MintingFees{})
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("burn percentage above 100 is rejected", func() {
		_, err := s.service.UpdateMintingFees(s.ctx, admin, models.MintingFees{BurnPercentage: ptr(uint64(101))})
		s.requireCode(err, dErrors.CodeValidation)
	})
}

func (s *NamesServiceSuite) TestSetUsernameLengthCap() {
	tests := []struct {
		name      string
		requested uint32
		expected  uint32
	}{
		{"below default keeps default", 10, 20},
		{"just above default is applied", 21, 21},
		{"larger value is applied", 30, 30},
		{"lower value keeps the current cap", 25, 30},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.service.SetUsernameLengthCap(s.ctx, admin, tt.requested)
			s.Require().NoError(err)
			applied, _ := resp.Attr("username_length_cap")
			parsed, err := strconv.ParseUint(applied, 10, 32)
			s.Require().NoError(err)
			s.Equal(tt.expected, uint32(parsed))

			current, err := s.service.UsernameLengthCap(s.ctx)
			s.Require().NoError(err)
			s.Equal(tt.expected, current)
		})
	}

	s.Run("longer names can be minted after raising the cap", func() {
		s.mint(alice, "abcdefghijklmnopqrstuvwxyz")
	})

	s.Run("non admin is unauthorized", func() {
		_, err := s.service.SetUsernameLengthCap(s.ctx, bob, 40)
		s.requireCode(err, dErrors.CodeUnauthorized)
	})
}

func (s *NamesServiceSuite) TestSetAdminAddress() {
	s.Run("non admin is unauthorized", func() {
		_, err := s.service.SetAdminAddress(s.ctx, alice, alice)
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("empty address is rejected", func() {
		_, err := s.service.SetAdminAddress(s.ctx, admin, "")
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("admin role moves and the old admin loses it", func() {
		_, err := s.service.SetAdminAddress(s.ctx, admin, bob)
		s.Require().NoError(err)

		current, err := s.service.AdminAddress(s.ctx)
		s.Require().NoError(err)
		s.Equal(bob, current)

		_, err = s.service.SetUsernameLengthCap(s.ctx, admin, 40)
		s.requireCode(err, dErrors.CodeUnauthorized)

		_, err = s.service.SetUsernameLengthCap(s.ctx, bob, 40)
		s.NoError(err)
	})

	s.Run("fees settle to the new admin", func() {
		_, err := s.service.UpdateMintingFees(s.ctx, bob, models.MintingFees{BaseMintFee: ptr(uint64(5))})
		s.Require().NoError(err)
		resp, err := s.service.Mint(s.ctx, alice, MintInput{
			TokenID: "alice",
			Owner:   alice,
			Funds:   []models.Coin{{Denom: denom, Amount: 5}},
		})
		s.Require().NoError(err)
		s.Require().Len(resp.Messages, 1)
		s.Equal(bob, resp.Messages[0].ToAddress)
	})
}

func (s *NamesServiceSuite) TestGetMintFee() {
	s.setFees(models.MintingFees{
		BaseMintFee:        ptr(uint64(1_000_000)),
		BurnPercentage:     ptr(uint64(50)),
		ShortNameSurcharge: &models.ShortNameSurcharge{MaxCharacters: 5, Fee: 500},
	})

	s.Run("long name pays the base fee", func() {
		quote, err := s.service.GetMintFee(s.ctx, "longname")
		s.Require().NoError(err)
		s.Require().NotNil(quote.Fee)
		s.Equal(uint64(1_000_000), quote.Fee.Amount)
		s.Equal(uint64(500_000), quote.ToBurn)
		s.Equal(admin, quote.Admin)
	})

	s.Run("short name pays the surcharge as well", func() {
		quote, err := s.service.GetMintFee(s.ctx, "ab")
		s.Require().NoError(err)
		s.Equal(uint64(1_000_500), quote.Fee.Amount)
		s.Equal(quote.Fee.Amount, quote.ToAdmin+quote.ToBurn)
	})

	s.Run("empty name", func() {
		_, err := s.service.GetMintFee(s.ctx, "  ")
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("free registry quotes no fee", func() {
		s.setFees(models.MintingFees{})
		quote, err := s.service.GetMintFee(s.ctx, "ab")
		s.Require().NoError(err)
		s.Nil(quote.Fee)
	})
}
