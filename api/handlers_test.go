package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/satchelworks/satchel/pkg/satchel"
	testutils "github.com/satchelworks/satchel/pkg/utils/test"
)

// newTestServer builds a Server over in-memory storage and a mock embedder.
func newTestServer() (*Server, *testutils.MemoryStorage, *testutils.MockEmbedder) {
	storage := testutils.NewMemoryStorage()
	embedder := testutils.NewMockEmbedder()

	service, err := satchel.New(satchel.Config{
		RemoteKey:  "satchel.db",
		Dimensions: 3,
	}, storage, embedder, zap.NewNop())
	Expect(err).NotTo(HaveOccurred())

	server := NewServer(Config{ListenAddr: ":0"}, service, nil, zap.NewNop())
	return server, storage, embedder
}

func jsonRequest(method, target string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, target, reader)
	Expect(err).NotTo(HaveOccurred())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(resp *http.Response, into any) {
	data, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	Expect(json.Unmarshal(data, into)).To(Succeed())
}

var _ = Describe("ping", func() {
	It("returns pong", func() {
		server, _, _ := newTestServer()

		resp, err := server.app.Test(jsonRequest(http.MethodGet, "/ping", nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
	})
})

var _ = Describe("collection endpoints", func() {
	var server *Server

	BeforeEach(func() {
		server, _, _ = newTestServer()
	})

	Describe("POST /v1/collections", func() {
		It("creates a collection", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/v1/collections", AddCollectionRequest{Name: "notes"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))
		})

		It("returns 409 for a duplicate collection", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/v1/collections", AddCollectionRequest{Name: "notes"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))

			resp, err = server.app.Test(jsonRequest(http.MethodPost, "/v1/collections", AddCollectionRequest{Name: "notes"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusConflict))
		})

		It("returns 400 for a missing name", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/v1/collections", AddCollectionRequest{}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Describe("GET /v1/collections", func() {
		It("returns an empty list for a fresh store", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodGet, "/v1/collections", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body map[string]any
			decodeBody(resp, &body)
			Expect(body).To(HaveKeyWithValue("count", float64(0)))
		})

		It("lists created collections", func() {
			_, err := server.app.Test(jsonRequest(http.MethodPost, "/v1/collections", AddCollectionRequest{Name: "notes"}))
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(jsonRequest(http.MethodGet, "/v1/collections", nil))
			Expect(err).NotTo(HaveOccurred())

			var body map[string]any
			decodeBody(resp, &body)
			Expect(body["collections"]).To(ContainElement("notes"))
		})
	})

	Describe("DELETE /v1/collections/:name", func() {
		It("removes an existing collection", func() {
			_, err := server.app.Test(jsonRequest(http.MethodPost, "/v1/collections", AddCollectionRequest{Name: "notes"}))
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(jsonRequest(http.MethodDelete, "/v1/collections/notes", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNoContent))
		})

		It("returns 404 for a missing collection", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodDelete, "/v1/collections/ghost", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})
	})
})

var _ = Describe("document endpoints", func() {
	var server *Server

	BeforeEach(func() {
		server, _, _ = newTestServer()

		resp, err := server.app.Test(jsonRequest(http.MethodPost, "/v1/collections", AddCollectionRequest{Name: "notes"}))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))
	})

	Describe("POST /v1/documents", func() {
		It("adds a document", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/v1/documents", AddDocumentRequest{
				Collection: "notes",
				URI:        "doc:1",
				Title:      "First",
				Body:       "Body text",
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))
		})

		It("returns 409 for a duplicate URI", func() {
			doc := AddDocumentRequest{Collection: "notes", URI: "doc:1", Body: "text"}

			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/v1/documents", doc))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))

			resp, err = server.app.Test(jsonRequest(http.MethodPost, "/v1/documents", doc))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusConflict))
		})

		It("returns 404 for a missing collection", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/v1/documents", AddDocumentRequest{
				Collection: "ghost",
				URI:        "doc:1",
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})

		It("returns 400 when collection or uri is missing", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/v1/documents", AddDocumentRequest{Collection: "notes"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Describe("GET /v1/documents", func() {
		It("fetches a stored document", func() {
			_, err := server.app.Test(jsonRequest(http.MethodPost, "/v1/documents", AddDocumentRequest{
				Collection: "notes",
				URI:        "doc:1",
				Title:      "First",
				Body:       "Body text",
			}))
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(jsonRequest(http.MethodGet, "/v1/documents?collection=notes&uri=doc:1", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body map[string]any
			decodeBody(resp, &body)
			Expect(body).To(HaveKeyWithValue("title", "First"))
		})

		It("returns 404 for an absent document", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodGet, "/v1/documents?collection=notes&uri=missing", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})

		It("returns 400 without query parameters", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodGet, "/v1/documents", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Describe("DELETE /v1/documents", func() {
		It("removes a document", func() {
			_, err := server.app.Test(jsonRequest(http.MethodPost, "/v1/documents", AddDocumentRequest{
				Collection: "notes",
				URI:        "doc:1",
				Body:       "text",
			}))
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(jsonRequest(http.MethodDelete, "/v1/documents?collection=notes&uri=doc:1", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNoContent))
		})

		It("succeeds for an absent URI", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodDelete, "/v1/documents?collection=notes&uri=never", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNoContent))
		})
	})
})
