package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/satchelworks/satchel/pkg/session"
	testutils "github.com/satchelworks/satchel/pkg/utils/test"
)

// tempDBFiles lists leftover session workspace files in the OS temp dir.
func tempDBFiles() []string {
	entries, err := os.ReadDir(os.TempDir())
	Expect(err).NotTo(HaveOccurred())

	var matches []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "satchel-") && strings.HasSuffix(e.Name(), ".db") {
			matches = append(matches, filepath.Join(os.TempDir(), e.Name()))
		}
	}
	return matches
}

var _ = Describe("Session", func() {
	var (
		storage *testutils.MemoryStorage
		ctx     context.Context
		logger  *zap.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		storage = testutils.NewMemoryStorage()
		logger = zap.NewNop()
	})

	Describe("New", func() {
		It("requires storage", func() {
			_, err := session.New(nil, "store.db", logger)
			Expect(err).To(HaveOccurred())
		})

		It("requires a remote key", func() {
			_, err := session.New(storage, "", logger)
			Expect(err).To(HaveOccurred())
		})

		It("requires a logger", func() {
			_, err := session.New(storage, "store.db", nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("With", func() {
		It("bootstraps when the remote file is absent", func() {
			sess, err := session.New(storage, "store.db", logger)
			Expect(err).NotTo(HaveOccurred())

			err = sess.With(ctx, func(localPath string) error {
				return os.WriteFile(localPath, []byte("fresh database"), 0o600)
			})
			Expect(err).NotTo(HaveOccurred())

			data, ok := storage.Object("store.db")
			Expect(ok).To(BeTrue())
			Expect(data).To(Equal([]byte("fresh database")))
		})

		It("downloads the existing remote copy before running fn", func() {
			storage.PutObject("store.db", []byte("existing"))

			sess, err := session.New(storage, "store.db", logger)
			Expect(err).NotTo(HaveOccurred())

			var seen []byte
			err = sess.With(ctx, func(localPath string) error {
				seen, err = os.ReadFile(localPath)
				return err
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(Equal([]byte("existing")))
		})

		It("publishes local mutations back to the remote key", func() {
			storage.PutObject("store.db", []byte("before"))

			sess, err := session.New(storage, "store.db", logger)
			Expect(err).NotTo(HaveOccurred())

			err = sess.With(ctx, func(localPath string) error {
				return os.WriteFile(localPath, []byte("after"), 0o600)
			})
			Expect(err).NotTo(HaveOccurred())

			data, _ := storage.Object("store.db")
			Expect(data).To(Equal([]byte("after")))
		})

		It("does not upload when fn returns an error", func() {
			storage.PutObject("store.db", []byte("before"))

			sess, err := session.New(storage, "store.db", logger)
			Expect(err).NotTo(HaveOccurred())

			opErr := errors.New("operation failed")
			err = sess.With(ctx, func(string) error {
				return opErr
			})
			Expect(err).To(MatchError(opErr))

			Expect(storage.Uploads).To(BeZero())
			data, _ := storage.Object("store.db")
			Expect(data).To(Equal([]byte("before")))
		})

		It("returns ErrConflict when the remote changed mid-session", func() {
			storage.PutObject("store.db", []byte("original"))

			sess, err := session.New(storage, "store.db", logger)
			Expect(err).NotTo(HaveOccurred())

			err = sess.With(ctx, func(localPath string) error {
				// another writer publishes while we hold our snapshot
				storage.PutObject("store.db", []byte("someone else's write"))
				return os.WriteFile(localPath, []byte("our write"), 0o600)
			})
			Expect(err).To(MatchError(session.ErrConflict))

			// the other writer's copy survives
			data, _ := storage.Object("store.db")
			Expect(data).To(Equal([]byte("someone else's write")))
		})

		It("treats remote deletion mid-session as a conflict", func() {
			storage.PutObject("store.db", []byte("original"))

			sess, err := session.New(storage, "store.db", logger)
			Expect(err).NotTo(HaveOccurred())

			err = sess.With(ctx, func(localPath string) error {
				Expect(storage.Delete(ctx, "store.db")).To(Succeed())
				return os.WriteFile(localPath, []byte("our write"), 0o600)
			})
			Expect(err).To(MatchError(session.ErrConflict))
		})

		It("propagates download failures", func() {
			storage.FailDownload = errors.New("network down")

			sess, err := session.New(storage, "store.db", logger)
			Expect(err).NotTo(HaveOccurred())

			err = sess.With(ctx, func(string) error { return nil })
			Expect(err).To(MatchError(storage.FailDownload))
		})

		It("propagates upload failures", func() {
			sess, err := session.New(storage, "store.db", logger)
			Expect(err).NotTo(HaveOccurred())

			uploadErr := errors.New("write denied")
			storage.FailUpload = uploadErr

			err = sess.With(ctx, func(localPath string) error {
				return os.WriteFile(localPath, []byte("data"), 0o600)
			})
			Expect(err).To(MatchError(uploadErr))
		})

		It("removes the workspace file on success", func() {
			sess, err := session.New(storage, "store.db", logger)
			Expect(err).NotTo(HaveOccurred())

			before := len(tempDBFiles())

			err = sess.With(ctx, func(localPath string) error {
				return os.WriteFile(localPath, []byte("data"), 0o600)
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(tempDBFiles()).To(HaveLen(before))
		})

		It("removes the workspace file when fn errors", func() {
			sess, err := session.New(storage, "store.db", logger)
			Expect(err).NotTo(HaveOccurred())

			before := len(tempDBFiles())

			_ = sess.With(ctx, func(localPath string) error {
				Expect(os.WriteFile(localPath, []byte("data"), 0o600)).To(Succeed())
				return errors.New("boom")
			})

			Expect(tempDBFiles()).To(HaveLen(before))
		})

		It("removes the workspace file on conflict", func() {
			storage.PutObject("store.db", []byte("original"))

			sess, err := session.New(storage, "store.db", logger)
			Expect(err).NotTo(HaveOccurred())

			before := len(tempDBFiles())

			_ = sess.With(ctx, func(localPath string) error {
				storage.PutObject("store.db", []byte("changed"))
				return os.WriteFile(localPath, []byte("data"), 0o600)
			})

			Expect(tempDBFiles()).To(HaveLen(before))
		})

		It("supports sequential sessions over the same key", func() {
			sess, err := session.New(storage, "store.db", logger)
			Expect(err).NotTo(HaveOccurred())

			err = sess.With(ctx, func(localPath string) error {
				return os.WriteFile(localPath, []byte("v1"), 0o600)
			})
			Expect(err).NotTo(HaveOccurred())

			err = sess.With(ctx, func(localPath string) error {
				data, err := os.ReadFile(localPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(data).To(Equal([]byte("v1")))
				return os.WriteFile(localPath, []byte("v2"), 0o600)
			})
			Expect(err).NotTo(HaveOccurred())

			data, _ := storage.Object("store.db")
			Expect(data).To(Equal([]byte("v2")))
		})
	})
})
