package workflow

import (
	"context"

	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/metrics"
	"github.com/olympiadqr/olympiadqr/internal/ports"
	"github.com/olympiadqr/olympiadqr/internal/repository/memory"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

var _ = Describe("OCRWorker", func() {
	ctx := context.Background()

	newWorker := func(store *memory.Store, objStore *fakeObjectStore, qr ports.QRDecoder, ocr ports.OCREngine) *OCRWorker {
		return NewOCRWorker(store, newTokenService(), objStore, qr, fakeRasterizer{}, ocr,
			"scans", 0.7, 300, 10, 250, 30, 15, newTestLogger(), metrics.New())
	}

	It("auto-applies the score when confidence clears the threshold", func() {
		store := memory.NewStore()
		repos := repositoriesOf(store)
		tokens := newTokenService()

		pair, err := tokens.Generate(32)
		Expect(err).NotTo(HaveOccurred())
		attempt, err := domain.NewAttempt(domain.NewID(), 1, pair.Hash)
		Expect(err).NotTo(HaveOccurred())
		Expect(repos.Attempts.Create(ctx, attempt)).To(Succeed())

		scan, err := domain.NewScan("scans/1.png", domain.NewID())
		Expect(err).NotTo(HaveOccurred())
		Expect(repos.Scans.Create(ctx, scan)).To(Succeed())

		objStore := newFakeObjectStore()
		Expect(objStore.Put(ctx, "scans", scan.FilePath, tinyPNG(), "image/png")).To(Succeed())

		worker := newWorker(store, objStore, fakeQRDecoder{payload: pair.Raw}, fakeOCREngine{result: ports.OCRResult{Text: "87", Confidence: 0.92}})
		Expect(worker.ProcessScan(ctx, scan.ID, false)).To(Succeed())

		updatedAttempt, err := repos.Attempts.GetByID(ctx, attempt.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(updatedAttempt.Status).To(Equal(domain.AttemptScored))
		Expect(*updatedAttempt.ScoreTotal).To(Equal(87))

		updatedScan, err := repos.Scans.GetByID(ctx, scan.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(*updatedScan.OCRScore).To(Equal(87))
	})

	It("leaves the attempt for manual verification below the confidence threshold", func() {
		store := memory.NewStore()
		repos := repositoriesOf(store)
		tokens := newTokenService()

		pair, err := tokens.Generate(32)
		Expect(err).NotTo(HaveOccurred())
		attempt, err := domain.NewAttempt(domain.NewID(), 1, pair.Hash)
		Expect(err).NotTo(HaveOccurred())
		Expect(repos.Attempts.Create(ctx, attempt)).To(Succeed())

		scan, err := domain.NewScan("scans/1.png", domain.NewID())
		Expect(err).NotTo(HaveOccurred())
		Expect(repos.Scans.Create(ctx, scan)).To(Succeed())

		objStore := newFakeObjectStore()
		Expect(objStore.Put(ctx, "scans", scan.FilePath, tinyPNG(), "image/png")).To(Succeed())

		worker := newWorker(store, objStore, fakeQRDecoder{payload: pair.Raw}, fakeOCREngine{result: ports.OCRResult{Text: "82", Confidence: 0.55}})
		Expect(worker.ProcessScan(ctx, scan.ID, false)).To(Succeed())

		updatedAttempt, err := repos.Attempts.GetByID(ctx, attempt.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(updatedAttempt.Status).To(Equal(domain.AttemptScanned))
		Expect(updatedAttempt.ScoreTotal).To(BeNil())
	})
})
