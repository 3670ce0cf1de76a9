package service

import (
	"whoami/internal/names/models"
	settingsstore "whoami/internal/names/store/settings"
	dErrors "whoami/pkg/domain-errors"
)

// =============================================================================
// DID Document Tests
// =============================================================================

func (s *NamesServiceSuite) mintWithDocument(publicName, id string, doc *models.DIDDocument) (*models.Response, error) {
	return s.service.Mint(s.ctx, alice, MintInput{
		TokenID:  id,
		Owner:    alice,
		Metadata: models.Metadata{PublicName: publicName, Document: doc},
	})
}

func (s *NamesServiceSuite) TestMintBindsDocument() {
	_, err := s.mintWithDocument("Alice", "alice", &models.DIDDocument{
		Service: []models.DIDService{{Type: "profile", ServiceEndpoint: "https://alice.example"}},
	})
	s.Require().NoError(err)

	n, err := s.service.Name(s.ctx, "alice")
	s.Require().NoError(err)
	doc := n.Metadata.Document
	s.Require().NotNil(doc)
	s.Equal(models.DIDContext, doc.Context)
	s.Equal("did:whoami:alice", doc.ID)
	s.Equal([]string{"did:whoami:alice"}, doc.Controller)

	s.Run("resolves by did", func() {
		got, err := s.service.ResolveDocument(s.ctx, "did:whoami:alice")
		s.Require().NoError(err)
		s.Equal(doc, got)
	})

	s.Run("other methods do not resolve", func() {
		_, err := s.service.ResolveDocument(s.ctx, "did:other:alice")
		s.requireCode(err, dErrors.CodeValidation)
	})
}

func (s *NamesServiceSuite) TestMintRejectsDocumentForAnotherSubject() {
	_, err := s.mintWithDocument("Alice", "alice", &models.DIDDocument{ID: "did:whoami:bob"})
	s.requireCode(err, dErrors.CodeValidation)

	_, err = s.mintWithDocument("Alice", "alice", &models.DIDDocument{Context: "https://example.com/ctx"})
	s.requireCode(err, dErrors.CodeValidation)

	s.Zero(s.numTokens())
}

func (s *NamesServiceSuite) TestPathDocumentUsesFullID() {
	s.mint(alice, "alice")
	_, err := s.service.MintPath(s.ctx, alice, MintPathInput{
		Segment:  "plans",
		Owner:    alice,
		ParentID: "alice",
		Metadata: models.Metadata{Document: &models.DIDDocument{}},
	})
	s.Require().NoError(err)

	doc, err := s.service.ResolveDocument(s.ctx, "did:whoami:alice::plans")
	s.Require().NoError(err)
	s.Equal("did:whoami:alice::plans", doc.ID)
}

func (s *NamesServiceSuite) TestTransferClearsDocument() {
	_, err := s.mintWithDocument("Alice", "alice", &models.DIDDocument{})
	s.Require().NoError(err)

	_, err = s.service.TransferNft(s.ctx, alice, "alice", bob)
	s.Require().NoError(err)

	n, err := s.service.Name(s.ctx, "alice")
	s.Require().NoError(err)
	s.Nil(n.Metadata.Document)

	_, err = s.service.ResolveDocument(s.ctx, "did:whoami:alice")
	s.requireCode(err, dErrors.CodeNotFound)
}

func (s *NamesServiceSuite) TestUpdateMetadataBindsDocument() {
	s.mint(alice, "alice")
	_, err := s.service.UpdateMetadata(s.ctx, alice, "alice", models.Metadata{Document: &models.DIDDocument{}})
	s.Require().NoError(err)

	doc, err := s.service.ResolveDocument(s.ctx, "did:whoami:alice")
	s.Require().NoError(err)
	s.Equal(models.DIDContext, doc.Context)
}

func (s *NamesServiceSuite) TestInstantiateDIDMethod() {
	s.Run("custom method names documents", func() {
		svc, err := New(s.names, s.operators, s.aliases, settingsstore.NewInMemory())
		s.Require().NoError(err)
		settings, err := svc.Instantiate(s.ctx, Genesis{
			AdminAddress: admin.String(),
			MintingFees:  models.MintingFees{NativeDenom: denom},
			DIDMethod:    "minerva",
		})
		s.Require().NoError(err)
		s.Equal("minerva", settings.Method())
	})

	s.Run("invalid method", func() {
		svc, err := New(s.names, s.operators, s.aliases, settingsstore.NewInMemory())
		s.Require().NoError(err)
		_, err = svc.Instantiate(s.ctx, Genesis{
			AdminAddress: admin.String(),
			MintingFees:  models.MintingFees{NativeDenom: denom},
			DIDMethod:    "Not Valid",
		})
		s.requireCode(err, dErrors.CodeValidation)
	})
}
