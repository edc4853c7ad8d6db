package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/BerylCAtieno/label-ocr-api/internal/analyzer"
	"github.com/BerylCAtieno/label-ocr-api/internal/export"
	"github.com/BerylCAtieno/label-ocr-api/internal/extractor"
	"github.com/BerylCAtieno/label-ocr-api/internal/merger"
	"github.com/BerylCAtieno/label-ocr-api/internal/models"
	"github.com/BerylCAtieno/label-ocr-api/internal/reporting"
	"github.com/BerylCAtieno/label-ocr-api/internal/repository"
	"github.com/BerylCAtieno/label-ocr-api/internal/storage"
	"github.com/BerylCAtieno/label-ocr-api/internal/utils"
)

// User-facing messages.
const (
	msgNoFile        = "ไม่พบไฟล์ PDF"
	msgTooLarge      = "ไฟล์ใหญ่เกิน %dMB กรุณาใช้ไฟล์ที่เล็กกว่า"
	msgUnreadable    = "ไม่สามารถอ่านไฟล์ PDF ได้ กรุณาตรวจสอบไฟล์"
	msgNoData        = "ไม่สามารถดึงข้อมูลจากไฟล์ PDF ได้ กรุณาตรวจสอบไฟล์หรือลองใหม่"
	msgRenderFailed  = "ไม่สามารถสร้างฉลากได้ กรุณาลองใหม่อีกครั้ง"
	msgMergeFailed   = "ไม่สามารถรวมไฟล์ PDF ได้ กรุณาตรวจสอบไฟล์"
	msgTimeout       = "การประมวลผลใช้เวลานานเกินไป กรุณาลองใหม่หรือใช้ไฟล์ PDF ที่เล็กกว่า"
	msgInternal      = "เกิดข้อผิดพลาดในการประมวลผล"
	msgJobNotFound   = "ไม่พบงานที่ระบุ"
	msgLabelNotFound = "ไม่พบไฟล์ฉลากของงานนี้"
)

const (
	DefaultMaxUploadBytes = 20 << 20
	DefaultRequestTimeout = 5 * time.Minute
	DefaultSinkTimeout    = 30 * time.Second
	DefaultTempDir        = "uploads"
)

type LabelService interface {
	Process(ctx context.Context, doc *models.SourceDocument) (*models.LabelResult, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	ListJobs(ctx context.Context, limit int) ([]models.Job, error)
	JobRecordsXLSX(ctx context.Context, id string) ([]byte, error)
	JobLabel(ctx context.Context, id string) ([]byte, string, error)
}

// Renderer produces the label document for a record set.
type Renderer interface {
	Render(ctx context.Context, records []models.ShipmentRecord) ([]byte, error)
}

type Options struct {
	MaxUploadBytes int64
	RequestTimeout time.Duration
	TempDir        string
	MaxChunks      int
	SinkTimeout    time.Duration
}

func (o *Options) defaults() {
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	if o.TempDir == "" {
		o.TempDir = DefaultTempDir
	}
	if o.MaxChunks <= 0 {
		o.MaxChunks = extractor.DefaultMaxChunks
	}
	if o.SinkTimeout <= 0 {
		o.SinkTimeout = DefaultSinkTimeout
	}
}

// Dependencies are the collaborators of the label service. Repo, Archive
// and Sink are optional.
type Dependencies struct {
	Extractor *analyzer.RecordExtractor
	Renderer  Renderer
	Repo      repository.Repository
	Archive   storage.Storage
	Sink      reporting.Sink
	Logger    *utils.Logger
}

type labelService struct {
	opts      Options
	extractor *analyzer.RecordExtractor
	renderer  Renderer
	repo      repository.Repository
	archive   storage.Storage
	sink      reporting.Sink
	logger    *utils.Logger
}

func NewLabelService(opts Options, deps Dependencies) LabelService {
	opts.defaults()
	if deps.Logger == nil {
		deps.Logger = utils.NewDiscardLogger()
	}
	return &labelService{
		opts:      opts,
		extractor: deps.Extractor,
		renderer:  deps.Renderer,
		repo:      deps.Repo,
		archive:   deps.Archive,
		sink:      deps.Sink,
		logger:    deps.Logger,
	}
}

// run tracks the state of one Process call.
type run struct {
	jobID string
	state models.JobState
	log   *utils.Logger
}

// Process runs an upload through segmentation, extraction, rendering and
// merging, strictly in that order. Temporary files are removed on every
// path and the records are forwarded to the reporting sink after success.
func (s *labelService) Process(ctx context.Context, doc *models.SourceDocument) (*models.LabelResult, error) {
	start := time.Now()

	if doc == nil || len(doc.Data) == 0 {
		return nil, utils.NewBadRequestError(msgNoFile)
	}
	if size := int64(len(doc.Data)); size > s.opts.MaxUploadBytes || doc.Size > s.opts.MaxUploadBytes {
		s.logger.Warn("Upload rejected: too large", "filename", doc.Filename, "size", size, "limit", s.opts.MaxUploadBytes)
		return nil, utils.NewBadRequestError(fmt.Sprintf(msgTooLarge, s.opts.MaxUploadBytes>>20))
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	r := &run{
		jobID: utils.GenerateID(),
		state: models.StateReceived,
	}
	r.log = s.logger.With("job_id", r.jobID)
	r.log.Info("Processing upload", "filename", doc.Filename, "size", len(doc.Data))

	s.createJob(ctx, r, doc)

	ws, err := newWorkspace(s.opts.TempDir, doc.Filename)
	if err != nil {
		return nil, s.fail(ctx, r, start, internalError(err))
	}
	defer ws.cleanup(r.log)

	if err := ws.writeSource(doc.Data); err != nil {
		return nil, s.fail(ctx, r, start, internalError(err))
	}

	// Segmenting
	s.transition(ctx, r, models.StateSegmenting)
	seg, err := extractor.Segment(doc.Data, extractor.SegmentOptions{MaxChunks: s.opts.MaxChunks})
	if err != nil {
		if errors.Is(err, extractor.ErrUnreadable) {
			return nil, s.fail(ctx, r, start, utils.NewUnreadableDocumentError(msgUnreadable, err))
		}
		return nil, s.fail(ctx, r, start, internalError(err))
	}
	if seg.Dropped > 0 {
		r.log.Warn("Chunks beyond limit dropped", "total", seg.Total, "kept", len(seg.Chunks), "dropped", seg.Dropped)
	}

	// Extracting
	if err := s.checkDeadline(ctx, r, start); err != nil {
		return nil, err
	}
	s.transition(ctx, r, models.StateExtracting)
	records, stats, err := s.extractor.ExtractAll(ctx, seg.Chunks)
	if err != nil {
		return nil, s.fail(ctx, r, start, utils.NewTimeoutError(msgTimeout, err))
	}
	r.log.Info("Extraction finished",
		"chunks", stats.Chunks,
		"skipped", stats.Skipped,
		"calls", stats.Calls,
		"failed", stats.Failed,
		"records", len(records),
		"degraded", stats.Degraded)
	if len(records) == 0 {
		return nil, s.fail(ctx, r, start, utils.NewNoDataExtractedError(msgNoData))
	}

	// Rendering
	if err := s.checkDeadline(ctx, r, start); err != nil {
		return nil, err
	}
	s.transition(ctx, r, models.StateRendering)
	rendered, err := s.renderer.Render(ctx, records)
	if err != nil {
		if ctx.Err() != nil {
			return nil, s.fail(ctx, r, start, utils.NewTimeoutError(msgTimeout, err))
		}
		return nil, s.fail(ctx, r, start, utils.NewRenderingFailedError(msgRenderFailed, err))
	}
	if err := ws.writeGenerated(rendered); err != nil {
		return nil, s.fail(ctx, r, start, internalError(err))
	}

	// Merging
	if err := s.checkDeadline(ctx, r, start); err != nil {
		return nil, err
	}
	s.transition(ctx, r, models.StateMerging)
	merged, err := merger.MergeFiles(ws.sourcePath, ws.generatedPath)
	if err != nil {
		return nil, s.fail(ctx, r, start, utils.NewMergeFailedError(msgMergeFailed, err))
	}

	result := &models.LabelResult{
		JobID:       r.jobID,
		Filename:    DownloadName(doc.Filename),
		PDF:         merged,
		Records:     records,
		SourcePages: s.pageCount(r, doc.Data),
		LabelPages:  s.pageCount(r, rendered),
	}

	archiveKey := s.archiveResult(ctx, r, result)
	s.completeJob(ctx, r, len(seg.Chunks), records, archiveKey)

	reporting.Dispatch(s.sink, records, s.opts.SinkTimeout, r.log)

	r.log.Info("Processing completed",
		"records", len(records),
		"source_pages", result.SourcePages,
		"label_pages", result.LabelPages,
		"bytes", len(merged),
		"elapsed_ms", time.Since(start).Milliseconds())

	return result, nil
}

func internalError(cause error) *utils.AppError {
	return utils.NewAppError(utils.CodeInternal, http.StatusInternalServerError, msgInternal, cause)
}

func (s *labelService) checkDeadline(ctx context.Context, r *run, start time.Time) error {
	if err := ctx.Err(); err != nil {
		return s.fail(ctx, r, start, utils.NewTimeoutError(msgTimeout, err))
	}
	return nil
}

func (s *labelService) transition(ctx context.Context, r *run, to models.JobState) {
	r.log.Info("pipeline.stage", "from", r.state, "to", to)
	r.state = to

	if s.repo == nil {
		return
	}
	if err := s.repo.UpdateState(ctx, r.jobID, to); err != nil {
		r.log.Warn("Failed to record job state", "state", to, "error", err)
	}
}

// fail moves the run to the failed state and returns appErr.
func (s *labelService) fail(ctx context.Context, r *run, start time.Time, appErr *utils.AppError) error {
	r.log.Error("Processing failed",
		"stage", r.state,
		"code", appErr.Code,
		"elapsed_ms", time.Since(start).Milliseconds(),
		"error", appErr)

	r.log.Info("pipeline.stage", "from", r.state, "to", models.StateFailed)
	r.state = models.StateFailed

	if s.repo != nil {
		// The request context may already be past its deadline.
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.repo.Fail(hctx, r.jobID, appErr.Code, appErr.Message); err != nil {
			r.log.Warn("Failed to record job failure", "error", err)
		}
	}
	return appErr
}

func (s *labelService) createJob(ctx context.Context, r *run, doc *models.SourceDocument) {
	if s.repo == nil {
		return
	}
	now := time.Now().UTC()
	job := &models.Job{
		ID:        r.jobID,
		Filename:  doc.Filename,
		FileSize:  int64(len(doc.Data)),
		State:     models.StateReceived,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		r.log.Warn("Failed to record job", "error", err)
	}
}

func (s *labelService) completeJob(ctx context.Context, r *run, chunks int, records []models.ShipmentRecord, archiveKey string) {
	r.log.Info("pipeline.stage", "from", r.state, "to", models.StateCompleted)
	r.state = models.StateCompleted

	if s.repo == nil {
		return
	}
	if err := s.repo.Complete(ctx, r.jobID, chunks, records, archiveKey); err != nil {
		r.log.Warn("Failed to record job completion", "error", err)
	}
}

// archiveResult uploads the merged PDF and returns its key, or "" when
// archiving is disabled or fails.
func (s *labelService) archiveResult(ctx context.Context, r *run, result *models.LabelResult) string {
	if s.archive == nil {
		return ""
	}
	key := storage.LabelKey(r.jobID, result.Filename)
	if err := s.archive.Upload(ctx, key, result.PDF, "application/pdf"); err != nil {
		r.log.Warn("Failed to archive label document", "key", key, "error", err)
		return ""
	}
	return key
}

func (s *labelService) pageCount(r *run, data []byte) int {
	n, err := merger.PageCount(data)
	if err != nil {
		r.log.Debug("Failed to count pages", "error", err)
		return 0
	}
	return n
}

func (s *labelService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	if s.repo == nil {
		return nil, utils.NewNotFoundError(msgJobNotFound)
	}
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get job", "error", err, "id", id)
		return nil, utils.NewInternalError(msgInternal)
	}
	if job == nil {
		return nil, utils.NewNotFoundError(msgJobNotFound)
	}
	return job, nil
}

func (s *labelService) ListJobs(ctx context.Context, limit int) ([]models.Job, error) {
	if s.repo == nil {
		return []models.Job{}, nil
	}
	jobs, err := s.repo.List(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list jobs", "error", err)
		return nil, utils.NewInternalError(msgInternal)
	}
	return jobs, nil
}

func (s *labelService) JobRecordsXLSX(ctx context.Context, id string) ([]byte, error) {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.State != models.StateCompleted {
		return nil, utils.NewNotFoundError(msgJobNotFound)
	}

	data, err := export.RecordsXLSX(job.Records)
	if err != nil {
		s.logger.Error("Failed to export records", "error", err, "id", id)
		return nil, utils.NewInternalError(msgInternal)
	}
	return data, nil
}

// JobLabel returns the archived merged PDF of a job and its download name.
func (s *labelService) JobLabel(ctx context.Context, id string) ([]byte, string, error) {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if s.archive == nil || job.ArchiveKey == nil {
		return nil, "", utils.NewNotFoundError(msgLabelNotFound)
	}

	data, err := s.archive.Download(ctx, *job.ArchiveKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", utils.NewNotFoundError(msgLabelNotFound)
	}
	if err != nil {
		s.logger.Error("Failed to download label document", "error", err, "id", id)
		return nil, "", utils.NewInternalError(msgInternal)
	}
	return data, DownloadName(job.Filename), nil
}
