package mcp

import (
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/satchelworks/satchel/pkg/satchel"
	testutils "github.com/satchelworks/satchel/pkg/utils/test"
)

// textContent extracts the text payload of the first content block.
func textContent(result *mcpsdk.CallToolResult) string {
	Expect(result.Content).NotTo(BeEmpty())
	text, ok := result.Content[0].(*mcpsdk.TextContent)
	Expect(ok).To(BeTrue())
	return text.Text
}

var _ = Describe("tool handlers", func() {
	var (
		server   *Server
		embedder *testutils.MockEmbedder
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()

		storage := testutils.NewMemoryStorage()
		embedder = testutils.NewMockEmbedder()

		service, err := satchel.New(satchel.Config{
			RemoteKey:  "satchel.db",
			Dimensions: 3,
		}, storage, embedder, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		server, err = NewServer(Config{
			Service: service,
			Logger:  zap.NewNop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("add_collection", func() {
		It("creates a collection", func() {
			result, output, err := server.handleAddCollection(ctx, nil, AddCollectionInput{Name: "notes"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.Name).To(Equal("notes"))

			// the text block mirrors the structured output
			var mirrored AddCollectionOutput
			Expect(json.Unmarshal([]byte(textContent(result)), &mirrored)).To(Succeed())
			Expect(mirrored).To(Equal(output))
		})

		It("flags an empty name as a tool error", func() {
			result, _, err := server.handleAddCollection(ctx, nil, AddCollectionInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})

		It("flags a duplicate collection as a tool error", func() {
			result, _, err := server.handleAddCollection(ctx, nil, AddCollectionInput{Name: "notes"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			result, _, err = server.handleAddCollection(ctx, nil, AddCollectionInput{Name: "notes"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(textContent(result)).To(ContainSubstring("already exists"))
		})
	})

	Describe("list_collections", func() {
		It("returns an empty list for a fresh store", func() {
			result, output, err := server.handleListCollections(ctx, nil, ListCollectionsInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.Count).To(BeZero())
			Expect(output.Collections).NotTo(BeNil())
		})

		It("lists created collections", func() {
			_, _, err := server.handleAddCollection(ctx, nil, AddCollectionInput{Name: "notes"})
			Expect(err).NotTo(HaveOccurred())

			_, output, err := server.handleListCollections(ctx, nil, ListCollectionsInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Collections).To(Equal([]string{"notes"}))
			Expect(output.Count).To(Equal(1))
		})
	})

	Describe("remove_collection", func() {
		It("removes an existing collection", func() {
			_, _, err := server.handleAddCollection(ctx, nil, AddCollectionInput{Name: "notes"})
			Expect(err).NotTo(HaveOccurred())

			result, output, err := server.handleRemoveCollection(ctx, nil, RemoveCollectionInput{Name: "notes"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.Name).To(Equal("notes"))
		})

		It("flags a missing collection as a tool error", func() {
			result, _, err := server.handleRemoveCollection(ctx, nil, RemoveCollectionInput{Name: "ghost"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})

	Describe("document tools", func() {
		BeforeEach(func() {
			_, _, err := server.handleAddCollection(ctx, nil, AddCollectionInput{Name: "notes"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("adds and fetches a document", func() {
			result, _, err := server.handleAddDocument(ctx, nil, AddDocumentInput{
				Collection: "notes",
				URI:        "doc:1",
				Title:      "First",
				Body:       "Body text",
				Metadata:   map[string]any{"tag": "test"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			getResult, output, err := server.handleGetDocument(ctx, nil, GetDocumentInput{
				Collection: "notes",
				URI:        "doc:1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(getResult.IsError).To(BeFalse())
			Expect(output.Found).To(BeTrue())
			Expect(output.Document.Title).To(Equal("First"))
		})

		It("reports an absent document as not found", func() {
			result, output, err := server.handleGetDocument(ctx, nil, GetDocumentInput{
				Collection: "notes",
				URI:        "missing",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.Found).To(BeFalse())
			Expect(output.Document).To(BeNil())
		})

		It("flags a duplicate URI as a tool error", func() {
			input := AddDocumentInput{Collection: "notes", URI: "doc:1", Body: "text"}

			result, _, err := server.handleAddDocument(ctx, nil, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			result, _, err = server.handleAddDocument(ctx, nil, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})

		It("removes a document", func() {
			_, _, err := server.handleAddDocument(ctx, nil, AddDocumentInput{
				Collection: "notes", URI: "doc:1", Body: "text",
			})
			Expect(err).NotTo(HaveOccurred())

			result, _, err := server.handleRemoveDocument(ctx, nil, RemoveDocumentInput{
				Collection: "notes", URI: "doc:1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			_, output, err := server.handleGetDocument(ctx, nil, GetDocumentInput{
				Collection: "notes", URI: "doc:1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Found).To(BeFalse())
		})

		It("rejects missing required fields", func() {
			result, _, err := server.handleAddDocument(ctx, nil, AddDocumentInput{URI: "doc:1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())

			result, _, err = server.handleAddDocument(ctx, nil, AddDocumentInput{Collection: "notes"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})

	Describe("find_relevant_documents", func() {
		BeforeEach(func() {
			embedder.Embeddings["rabbit"] = []float32{1, 0, 0}
			embedder.Embeddings["about rabbits"] = []float32{1, 0, 0}
			embedder.Embeddings["about cats"] = []float32{0, 1, 0}

			_, _, err := server.handleAddCollection(ctx, nil, AddCollectionInput{Name: "notes"})
			Expect(err).NotTo(HaveOccurred())

			for uri, body := range map[string]string{
				"doc:rabbits": "about rabbits",
				"doc:cats":    "about cats",
			} {
				result, _, err := server.handleAddDocument(ctx, nil, AddDocumentInput{
					Collection: "notes", URI: uri, Body: body,
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(result.IsError).To(BeFalse())
			}
		})

		It("returns results ordered by relevance", func() {
			result, output, err := server.handleSearch(ctx, nil, SearchInput{
				Collection: "notes",
				Query:      "rabbit",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			Expect(output.Count).To(Equal(2))
			Expect(output.Results[0].URI).To(Equal("doc:rabbits"))
			Expect(output.Results[0].Score).NotTo(BeNil())
		})

		It("honors the limit", func() {
			_, output, err := server.handleSearch(ctx, nil, SearchInput{
				Collection: "notes",
				Query:      "rabbit",
				Limit:      1,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Count).To(Equal(1))
		})

		It("honors the score floor", func() {
			_, output, err := server.handleSearch(ctx, nil, SearchInput{
				Collection: "notes",
				Query:      "rabbit",
				MinScore:   1.0,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Count).To(Equal(1))
			Expect(output.Results[0].URI).To(Equal("doc:rabbits"))
		})

		It("flags a missing collection as a tool error", func() {
			result, _, err := server.handleSearch(ctx, nil, SearchInput{
				Collection: "ghost",
				Query:      "rabbit",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})

		It("rejects empty inputs", func() {
			result, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "rabbit"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())

			result, _, err = server.handleSearch(ctx, nil, SearchInput{Collection: "notes"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})
})
