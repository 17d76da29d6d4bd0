package sqlite_test

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/satchelworks/satchel/pkg/store"
	"github.com/satchelworks/satchel/pkg/store/sqlite"
	testutils "github.com/satchelworks/satchel/pkg/utils/test"
)

var _ = Describe("Store", func() {
	var (
		st       *sqlite.Store
		embedder *testutils.MockEmbedder
		ctx      context.Context
	)

	newStore := func() *sqlite.Store {
		dbPath := filepath.Join(GinkgoT().TempDir(), "test.db")
		s, err := sqlite.New(sqlite.Config{
			Path:       dbPath,
			Dimensions: 3,
		}, embedder, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	BeforeEach(func() {
		ctx = context.Background()
		embedder = testutils.NewMockEmbedder()

		st = newStore()
		Expect(st.Connect(ctx)).To(Succeed())
	})

	AfterEach(func() {
		if st != nil {
			Expect(st.Disconnect()).To(Succeed())
		}
	})

	Describe("New", func() {
		It("requires a path", func() {
			_, err := sqlite.New(sqlite.Config{Dimensions: 3}, embedder, zap.NewNop())
			Expect(err).To(HaveOccurred())
		})

		It("requires nonzero dimensions", func() {
			_, err := sqlite.New(sqlite.Config{Path: "x.db"}, embedder, zap.NewNop())
			Expect(err).To(HaveOccurred())
		})

		It("requires an embedder", func() {
			_, err := sqlite.New(sqlite.Config{Path: "x.db", Dimensions: 3}, nil, zap.NewNop())
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("connection lifecycle", func() {
		It("rejects operations before Connect", func() {
			fresh := newStore()

			Expect(fresh.AddCollection(ctx, "notes")).To(MatchError(store.ErrNotConnected))

			_, err := fresh.ListCollections(ctx)
			Expect(err).To(MatchError(store.ErrNotConnected))

			_, err = fresh.GetDocument(ctx, "notes", "uri")
			Expect(err).To(MatchError(store.ErrNotConnected))
		})

		It("tolerates repeated Disconnect", func() {
			Expect(st.Disconnect()).To(Succeed())
			Expect(st.Disconnect()).To(Succeed())
			st = nil
		})

		It("tolerates repeated Connect", func() {
			Expect(st.Connect(ctx)).To(Succeed())
		})
	})

	Describe("AddCollection", func() {
		It("creates a collection", func() {
			Expect(st.AddCollection(ctx, "notes")).To(Succeed())

			exists, err := st.CollectionExists(ctx, "notes")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})

		It("rejects duplicate collections", func() {
			Expect(st.AddCollection(ctx, "notes")).To(Succeed())
			Expect(st.AddCollection(ctx, "notes")).To(MatchError(store.ErrCollectionExists))
		})

		It("rejects names that sanitize to an existing collection", func() {
			Expect(st.AddCollection(ctx, "my docs")).To(Succeed())
			Expect(st.AddCollection(ctx, "my-docs")).To(MatchError(store.ErrCollectionExists))
		})

		It("sanitizes unsafe names", func() {
			Expect(st.AddCollection(ctx, "team: notes/v1")).To(Succeed())

			names, err := st.ListCollections(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(ContainElement("team__notes_v1"))
		})
	})

	Describe("RemoveCollection", func() {
		It("removes an existing collection", func() {
			Expect(st.AddCollection(ctx, "notes")).To(Succeed())
			Expect(st.RemoveCollection(ctx, "notes")).To(Succeed())

			exists, err := st.CollectionExists(ctx, "notes")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})

		It("errors for a missing collection", func() {
			Expect(st.RemoveCollection(ctx, "ghost")).To(MatchError(store.ErrCollectionNotFound))
		})

		It("removes the collection's documents with it", func() {
			Expect(st.AddCollection(ctx, "notes")).To(Succeed())
			Expect(st.AddDocument(ctx, "notes", store.Document{URI: "doc:1", Body: "text"})).To(Succeed())
			Expect(st.RemoveCollection(ctx, "notes")).To(Succeed())

			Expect(st.AddCollection(ctx, "notes")).To(Succeed())
			doc, err := st.GetDocument(ctx, "notes", "doc:1")
			Expect(err).NotTo(HaveOccurred())
			Expect(doc).To(BeNil())
		})
	})

	Describe("ListCollections", func() {
		It("returns an empty list for a fresh store", func() {
			names, err := st.ListCollections(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(BeEmpty())
		})

		It("returns collections sorted by name", func() {
			Expect(st.AddCollection(ctx, "zebra")).To(Succeed())
			Expect(st.AddCollection(ctx, "alpha")).To(Succeed())
			Expect(st.AddCollection(ctx, "mango")).To(Succeed())

			names, err := st.ListCollections(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal([]string{"alpha", "mango", "zebra"}))
		})
	})

	Describe("AddDocument", func() {
		BeforeEach(func() {
			Expect(st.AddCollection(ctx, "notes")).To(Succeed())
		})

		It("stores a document with all fields", func() {
			doc := store.Document{
				URI:     "file:///notes/ideas.md",
				Title:   "Ideas",
				Body:    "Full body text",
				Summary: "A summary",
				Metadata: map[string]any{
					"author": "sam",
				},
				ChunkID: 2,
			}
			Expect(st.AddDocument(ctx, "notes", doc)).To(Succeed())

			got, err := st.GetDocument(ctx, "notes", "file:///notes/ideas.md")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
			Expect(got.Title).To(Equal("Ideas"))
			Expect(got.Body).To(Equal("Full body text"))
			Expect(got.Summary).To(Equal("A summary"))
			Expect(got.Metadata).To(HaveKeyWithValue("author", "sam"))
			Expect(got.ChunkID).To(Equal(2))
			Expect(got.CreatedAt).NotTo(BeZero())
			Expect(got.Score).To(BeNil())
		})

		It("rejects duplicate URIs within a collection", func() {
			doc := store.Document{URI: "doc:1", Body: "text"}
			Expect(st.AddDocument(ctx, "notes", doc)).To(Succeed())
			Expect(st.AddDocument(ctx, "notes", doc)).To(MatchError(store.ErrDuplicateURI))
		})

		It("allows the same URI in different collections", func() {
			Expect(st.AddCollection(ctx, "other")).To(Succeed())

			doc := store.Document{URI: "doc:1", Body: "text"}
			Expect(st.AddDocument(ctx, "notes", doc)).To(Succeed())
			Expect(st.AddDocument(ctx, "other", doc)).To(Succeed())
		})

		It("errors for a missing collection", func() {
			err := st.AddDocument(ctx, "ghost", store.Document{URI: "doc:1"})
			Expect(err).To(MatchError(store.ErrCollectionNotFound))
		})

		It("propagates embedding failures", func() {
			embedder.FailOn = "poison"
			err := st.AddDocument(ctx, "notes", store.Document{URI: "doc:1", Body: "poison"})
			Expect(err).To(HaveOccurred())
		})

		It("rejects embeddings of the wrong width", func() {
			embedder.Embeddings["wide"] = []float32{1, 2, 3, 4}
			err := st.AddDocument(ctx, "notes", store.Document{URI: "doc:1", Body: "wide"})
			Expect(err).To(MatchError(store.ErrDimensionMismatch))
		})

		It("rejects zero-magnitude embeddings", func() {
			embedder.Embeddings["flat"] = []float32{0, 0, 0}
			err := st.AddDocument(ctx, "notes", store.Document{URI: "doc:1", Body: "flat"})
			Expect(err).To(MatchError(store.ErrZeroVector))
		})
	})

	Describe("RemoveDocument", func() {
		BeforeEach(func() {
			Expect(st.AddCollection(ctx, "notes")).To(Succeed())
		})

		It("removes an existing document", func() {
			Expect(st.AddDocument(ctx, "notes", store.Document{URI: "doc:1", Body: "text"})).To(Succeed())
			Expect(st.RemoveDocument(ctx, "notes", "doc:1")).To(Succeed())

			doc, err := st.GetDocument(ctx, "notes", "doc:1")
			Expect(err).NotTo(HaveOccurred())
			Expect(doc).To(BeNil())
		})

		It("succeeds for an absent URI", func() {
			Expect(st.RemoveDocument(ctx, "notes", "never-existed")).To(Succeed())
		})

		It("errors for a missing collection", func() {
			Expect(st.RemoveDocument(ctx, "ghost", "doc:1")).To(MatchError(store.ErrCollectionNotFound))
		})
	})

	Describe("GetDocument", func() {
		BeforeEach(func() {
			Expect(st.AddCollection(ctx, "notes")).To(Succeed())
		})

		It("returns nil without error for an absent URI", func() {
			doc, err := st.GetDocument(ctx, "notes", "missing")
			Expect(err).NotTo(HaveOccurred())
			Expect(doc).To(BeNil())
		})

		It("errors for a missing collection", func() {
			_, err := st.GetDocument(ctx, "ghost", "doc:1")
			Expect(err).To(MatchError(store.ErrCollectionNotFound))
		})

		It("round-trips empty metadata as an empty map", func() {
			Expect(st.AddDocument(ctx, "notes", store.Document{URI: "doc:1", Body: "text"})).To(Succeed())

			doc, err := st.GetDocument(ctx, "notes", "doc:1")
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Metadata).NotTo(BeNil())
			Expect(doc.Metadata).To(BeEmpty())
		})
	})
})
