package workflow

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/olympiadqr/olympiadqr/internal/adapters/imageproc"
	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/logging"
	"github.com/olympiadqr/olympiadqr/internal/metrics"
	"github.com/olympiadqr/olympiadqr/internal/ports"
	"github.com/olympiadqr/olympiadqr/internal/repository"
	"github.com/olympiadqr/olympiadqr/internal/token"
)

const (
	maxOCRRetries   = 3
	ocrRetryBackoff = 30 * time.Second
)

var firstDigitsRun = regexp.MustCompile(`\d+`)

// OCRWorker implements component H: decode the scan's QR, locate its
// attempt, crop and recognise the score field, and auto-apply the score
// when confidence clears the configured threshold.
type OCRWorker struct {
	runner        repository.Runner
	tokens        *token.Service
	objectStore   ports.ObjectStore
	qrDecoder     ports.QRDecoder
	rasterizer    ports.PDFRasterizer
	ocrEngine     ports.OCREngine
	scansBucket   string
	autoApplyThreshold float64
	dpi           int
	scoreFieldXMM, scoreFieldYMM, scoreFieldWMM, scoreFieldHMM float64
	logger        *logrus.Logger
	metrics       *metrics.Metrics
}

func NewOCRWorker(
	runner repository.Runner,
	tokens *token.Service,
	objectStore ports.ObjectStore,
	qrDecoder ports.QRDecoder,
	rasterizer ports.PDFRasterizer,
	ocrEngine ports.OCREngine,
	scansBucket string,
	autoApplyThreshold float64,
	dpi int,
	scoreFieldXMM, scoreFieldYMM, scoreFieldWMM, scoreFieldHMM float64,
	logger *logrus.Logger,
	m *metrics.Metrics,
) *OCRWorker {
	return &OCRWorker{
		runner: runner, tokens: tokens, objectStore: objectStore,
		qrDecoder: qrDecoder, rasterizer: rasterizer, ocrEngine: ocrEngine,
		scansBucket: scansBucket, autoApplyThreshold: autoApplyThreshold, dpi: dpi,
		scoreFieldXMM: scoreFieldXMM, scoreFieldYMM: scoreFieldYMM,
		scoreFieldWMM: scoreFieldWMM, scoreFieldHMM: scoreFieldHMM,
		logger: logger, metrics: m,
	}
}

// ProcessScan runs the full job with the retry/backoff policy of §4.H
// step 6: up to maxOCRRetries attempts, ocrRetryBackoff apart. It never
// suspends mid-job once a transaction is open — each retry is an entirely
// fresh attempt with its own session.
func (w *OCRWorker) ProcessScan(ctx context.Context, scanID domain.ID, isPDF bool) error {
	var lastErr error
	for attempt := 0; attempt < maxOCRRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(ocrRetryBackoff):
			}
		}
		lastErr = w.processOnce(ctx, scanID, isPDF)
		if lastErr == nil {
			return nil
		}
		w.logger.WithFields(logging.NewFields().Component("ocr_worker").Operation("process_scan").
			Custom("scan_id", scanID).Custom("attempt", attempt+1).Error(lastErr).ToLogrus()).
			Warn("ocr job attempt failed")
	}
	w.metrics.OCRJobs.WithLabelValues("error").Inc()
	return apperrors.Wrap(lastErr, apperrors.ErrorTypeRateLimit, "ocr job exhausted retries")
}

func (w *OCRWorker) processOnce(ctx context.Context, scanID domain.ID, isPDF bool) error {
	return w.runner.RunInTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		scan, err := repos.Scans.GetByID(ctx, scanID)
		if err != nil {
			return err
		}

		raw, err := w.objectStore.Get(ctx, w.scansBucket, scan.FilePath)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeNetwork, "failed to download scan")
		}

		imageBytes := raw
		if isPDF {
			imageBytes, err = w.rasterizer.RasterizeFirstPage(raw, w.dpi)
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to rasterize scan PDF")
			}
		}

		var linkedAttempt *domain.Attempt
		if payload, err := w.qrDecoder.Decode(imageBytes); err == nil && payload != "" {
			hash := w.tokens.Hash(payload)
			if attempt, err := repos.Attempts.GetBySheetTokenHash(ctx, hash); err == nil {
				linkedAttempt = attempt
				if scan.AttemptID == nil {
					sheets, err := repos.AnswerSheets.GetByAttempt(ctx, attempt.ID)
					var answerSheetID domain.ID
					if err == nil && len(sheets) > 0 {
						answerSheetID = sheets[0].ID
					}
					scan.LinkAttempt(attempt.ID, answerSheetID)
				}
			}
		}

		scoreFieldBytes, err := imageproc.CropScoreField(imageBytes, w.scoreFieldXMM, w.scoreFieldYMM, w.scoreFieldWMM, w.scoreFieldHMM, w.dpi)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to crop score field")
		}

		ocrResult, err := w.ocrEngine.Recognize(ctx, scoreFieldBytes)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "ocr engine failed")
		}

		digits := firstDigitsRun.FindString(ocrResult.Text)
		var score *int
		if digits != "" {
			if n, err := strconv.Atoi(digits); err == nil {
				score = &n
			}
		}
		confidence := ocrResult.Confidence
		w.metrics.OCRConfidence.Observe(confidence)
		scan.RecordOCR(score, &confidence, ocrResult.Text)
		if err := repos.Scans.Update(ctx, scan); err != nil {
			return err
		}

		outcome := "needs_review"
		if linkedAttempt != nil {
			if score != nil && confidence >= w.autoApplyThreshold {
				if err := linkedAttempt.ApplyScore(*score, &confidence); err != nil {
					return err
				}
				outcome = "auto_applied"
			} else if linkedAttempt.Status == domain.AttemptPrinted {
				if err := linkedAttempt.MarkScanned(); err != nil {
					return err
				}
			}
			if err := repos.Attempts.Update(ctx, linkedAttempt); err != nil {
				return err
			}
		}
		w.metrics.OCRJobs.WithLabelValues(outcome).Inc()

		return nil
	})
}
