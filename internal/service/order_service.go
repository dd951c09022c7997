package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"poaudit/internal/audit"
	"poaudit/internal/domain"
	"poaudit/internal/extractor"
	"poaudit/internal/port"
	"poaudit/internal/validator"
	"poaudit/internal/validator/order"
)

const defaultMaxExtractAttempts = 5

// CreateOrderInput is the DTO for creating an order and triggering extraction.
type CreateOrderInput struct {
	TenantID  uuid.UUID
	BatchID   uuid.UUID
	FileID    uuid.UUID
	Tags      map[string]string
	CreatedBy uuid.UUID
	Role      domain.UserRole
}

// EditStructuredDataInput is the DTO for manually editing an order's structured data.
type EditStructuredDataInput struct {
	TenantID       uuid.UUID
	OrderID        uuid.UUID
	UserID         uuid.UUID
	Role           domain.UserRole
	StructuredData json.RawMessage
}

// UpdateReviewInput is the DTO for updating an order's review status.
type UpdateReviewInput struct {
	TenantID   uuid.UUID
	OrderID    uuid.UUID
	ReviewerID uuid.UUID
	Role       domain.UserRole
	Status     domain.ReviewStatus
	Notes      string
}

// validReviewTransitions enumerates the allowed review state changes.
// Approved and rejected orders can be reopened for another look.
var validReviewTransitions = map[domain.ReviewStatus]map[domain.ReviewStatus]bool{
	domain.ReviewStatusUnreviewed: {
		domain.ReviewStatusInReview: true,
		domain.ReviewStatusApproved: true,
		domain.ReviewStatusRejected: true,
	},
	domain.ReviewStatusInReview: {
		domain.ReviewStatusUnreviewed: true,
		domain.ReviewStatusApproved:   true,
		domain.ReviewStatusRejected:   true,
	},
	domain.ReviewStatusApproved: {
		domain.ReviewStatusInReview: true,
	},
	domain.ReviewStatusRejected: {
		domain.ReviewStatusInReview: true,
	},
}

// OrderService defines the purchase order management contract.
type OrderService interface {
	CreateAndExtract(ctx context.Context, input *CreateOrderInput) (*domain.PurchaseOrder, error)
	GetByID(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) (*domain.PurchaseOrder, error)
	GetByFileID(ctx context.Context, tenantID, fileID, userID uuid.UUID, role domain.UserRole) (*domain.PurchaseOrder, error)
	ListByBatch(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.PurchaseOrder, int, error)
	ListByTenant(ctx context.Context, tenantID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.PurchaseOrder, int, error)
	UpdateReview(ctx context.Context, input *UpdateReviewInput) (*domain.PurchaseOrder, error)
	EditStructuredData(ctx context.Context, input *EditStructuredDataInput) (*domain.PurchaseOrder, error)
	RetryExtraction(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) (*domain.PurchaseOrder, error)
	ValidateOrder(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) error
	GetValidation(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) (*validator.ValidationResponse, error)
	Delete(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) error
	ListTags(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) ([]domain.OrderTag, error)
	AddTags(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole, tags map[string]string) ([]domain.OrderTag, error)
	DeleteTag(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole, tagID uuid.UUID) error
	SearchByTag(ctx context.Context, tenantID uuid.UUID, key, value string, offset, limit int) ([]domain.PurchaseOrder, int, error)
	ListEvents(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.OrderEvent, int, error)
	ExtractOrder(ctx context.Context, ord *domain.PurchaseOrder, maxAttempts int)
}

type orderService struct {
	orderRepo   port.OrderRepository
	fileRepo    port.FileMetaRepository
	userRepo    port.UserRepository
	batchRepo   port.BatchRepository
	permRepo    port.BatchPermissionRepository
	tagRepo     port.OrderTagRepository
	eventRepo   port.OrderEventRepository
	summaryRepo port.OrderSummaryRepository
	dupFinder   port.DuplicateFileFinder
	extractor   port.OrderExtractor
	storage     port.ObjectStorage
	validator   *validator.Engine
	emailSender port.EmailSender
	auditCfg    audit.Config
	locks       *fileLocks
}

// NewOrderService creates a new OrderService implementation.
func NewOrderService(
	orderRepo port.OrderRepository,
	fileRepo port.FileMetaRepository,
	userRepo port.UserRepository,
	batchRepo port.BatchRepository,
	permRepo port.BatchPermissionRepository,
	tagRepo port.OrderTagRepository,
	eventRepo port.OrderEventRepository,
	summaryRepo port.OrderSummaryRepository,
	dupFinder port.DuplicateFileFinder,
	orderExtractor port.OrderExtractor,
	storage port.ObjectStorage,
	validationEngine *validator.Engine,
	emailSender port.EmailSender,
	auditCfg audit.Config,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		fileRepo:    fileRepo,
		userRepo:    userRepo,
		batchRepo:   batchRepo,
		permRepo:    permRepo,
		tagRepo:     tagRepo,
		eventRepo:   eventRepo,
		summaryRepo: summaryRepo,
		dupFinder:   dupFinder,
		extractor:   orderExtractor,
		storage:     storage,
		validator:   validationEngine,
		emailSender: emailSender,
		auditCfg:    auditCfg,
		locks:       newFileLocks(),
	}
}

// effectiveBatchPerm computes the effective batch permission for a user.
func (s *orderService) effectiveBatchPerm(ctx context.Context, batchID, userID uuid.UUID, role domain.UserRole) domain.BatchPermission {
	implicit := domain.ImplicitBatchPerm(role)

	explicit := domain.BatchPermission("")
	perm, err := s.permRepo.GetByBatchAndUser(ctx, batchID, userID)
	if err == nil {
		explicit = perm.Permission
	}

	if domain.BatchPermLevel(implicit) >= domain.BatchPermLevel(explicit) {
		return implicit
	}
	return explicit
}

// requireBatchPerm checks that the user has the minimum permission on a batch.
func (s *orderService) requireBatchPerm(ctx context.Context, batchID, userID uuid.UUID, role domain.UserRole, minLevel domain.BatchPermission) error {
	eff := s.effectiveBatchPerm(ctx, batchID, userID, role)
	if domain.BatchPermLevel(eff) < domain.BatchPermLevel(minLevel) {
		return domain.ErrBatchPermDenied
	}
	return nil
}

// event records an order mutation in the audit trail. Failures are logged but never block business logic.
func (s *orderService) event(ctx context.Context, tenantID, orderID uuid.UUID, actorID *uuid.UUID, action domain.OrderEventAction, changes json.RawMessage) {
	if s.eventRepo == nil {
		return
	}
	if changes == nil {
		changes = json.RawMessage("{}")
	}
	entry := &domain.OrderEvent{
		ID:       uuid.New(),
		OrderID:  orderID,
		TenantID: tenantID,
		Action:   action,
		Changes:  changes,
		ActorID:  actorID,
	}
	if err := s.eventRepo.Create(ctx, entry); err != nil {
		log.Printf("orderService.event: failed to write event %s for %s: %v", action, orderID, err)
	}
}

func (s *orderService) CreateAndExtract(ctx context.Context, input *CreateOrderInput) (*domain.PurchaseOrder, error) {
	// Check editor+ permission on the batch
	if err := s.requireBatchPerm(ctx, input.BatchID, input.CreatedBy, input.Role, domain.BatchPermissionEditor); err != nil {
		return nil, err
	}

	// Check and increment quota (no-op for unlimited users)
	if err := s.userRepo.CheckAndIncrementQuota(ctx, input.TenantID, input.CreatedBy); err != nil {
		return nil, err
	}

	// Verify the file exists
	if _, err := s.fileRepo.GetByID(ctx, input.TenantID, input.FileID); err != nil {
		return nil, fmt.Errorf("looking up file: %w", err)
	}

	// One order per file
	if _, err := s.orderRepo.GetByFileID(ctx, input.TenantID, input.FileID); err == nil {
		return nil, domain.ErrOrderAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("checking for existing order: %w", err)
	}

	ord := &domain.PurchaseOrder{
		ID:               uuid.New(),
		TenantID:         input.TenantID,
		BatchID:          input.BatchID,
		FileID:           input.FileID,
		StructuredData:   json.RawMessage("{}"),
		ConfidenceScores: json.RawMessage("{}"),
		FieldProvenance:  json.RawMessage("{}"),
		ExtractionStatus: domain.ExtractionStatusPending,
		AuditStatus:      domain.AuditStatusPending,
		ReviewStatus:     domain.ReviewStatusUnreviewed,
		CreatedBy:        input.CreatedBy,
	}

	log.Printf("orderService.CreateAndExtract: creating order %s for file %s (tenant %s)",
		ord.ID, input.FileID, input.TenantID)

	if err := s.orderRepo.Create(ctx, ord); err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	changesJSON, _ := json.Marshal(map[string]interface{}{
		"batch_id": input.BatchID, "file_id": input.FileID,
	})
	s.event(ctx, ord.TenantID, ord.ID, &input.CreatedBy, domain.EventOrderCreated, changesJSON)

	// Save user-provided tags
	if len(input.Tags) > 0 && s.tagRepo != nil {
		tags := make([]domain.OrderTag, 0, len(input.Tags))
		for k, v := range input.Tags {
			tags = append(tags, domain.OrderTag{
				ID:       uuid.New(),
				OrderID:  ord.ID,
				TenantID: ord.TenantID,
				Key:      k,
				Value:    v,
			})
		}
		if tagErr := s.tagRepo.CreateBatch(ctx, tags); tagErr != nil {
			log.Printf("orderService.CreateAndExtract: failed to save tags for %s: %v", ord.ID, tagErr)
		}
	}

	// Copy before launching goroutine so the caller's value is independent of background work
	result := *ord

	// Launch background extraction
	go s.extractInBackground(ord.ID, ord.TenantID)

	return &result, nil
}

func (s *orderService) extractInBackground(orderID, tenantID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Printf("orderService.extractInBackground: starting extraction for order %s", orderID)

	// Set status to processing
	ord, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		log.Printf("orderService.extractInBackground: failed to get order %s: %v", orderID, err)
		return
	}
	ord.ExtractAttempts++
	ord.ExtractionStatus = domain.ExtractionStatusProcessing
	if err := s.orderRepo.UpdateExtraction(ctx, ord); err != nil {
		log.Printf("orderService.extractInBackground: failed to set processing status for %s: %v", orderID, err)
		return
	}

	startChanges, _ := json.Marshal(map[string]interface{}{"attempt": ord.ExtractAttempts})
	s.event(ctx, tenantID, orderID, nil, domain.EventExtractionStarted, startChanges)

	s.ExtractOrder(ctx, ord, defaultMaxExtractAttempts)
}

// ExtractOrder performs the core extraction logic: file lookup, duplicate
// reuse, S3 download, LLM extraction, error handling (with rate-limit
// queueing), the arithmetic audit pass, summary persistence, and validation.
// It is called by both extractInBackground and the queue worker.
// The order must already be in processing status with ExtractAttempts incremented.
func (s *orderService) ExtractOrder(ctx context.Context, ord *domain.PurchaseOrder, maxAttempts int) {
	// Look up file for S3 coordinates
	file, err := s.fileRepo.GetByID(ctx, ord.TenantID, ord.FileID)
	if err != nil {
		s.failExtraction(ctx, ord, fmt.Sprintf("looking up file: %v", err))
		return
	}

	// Serialize per file content so identical bytes are never extracted twice concurrently
	lockKey := file.ContentHash
	if lockKey == "" {
		lockKey = file.ID.String()
	}
	s.locks.Lock(lockKey)
	defer s.locks.Unlock(lockKey)

	// Reuse a completed extraction when the same bytes were already processed
	if s.dupFinder != nil && file.ContentHash != "" {
		match, dupErr := s.dupFinder.FindExtractedByHash(ctx, ord.TenantID, file.ContentHash, ord.FileID)
		if dupErr != nil && !errors.Is(dupErr, domain.ErrNotFound) {
			log.Printf("orderService.ExtractOrder: duplicate lookup failed for %s: %v", ord.ID, dupErr)
		}
		if match != nil && s.reuseExtraction(ctx, ord, match) {
			return
		}
	}

	// Download file bytes from S3
	fileBytes, err := s.storage.Download(ctx, file.S3Bucket, file.S3Key)
	if err != nil {
		s.failExtraction(ctx, ord, fmt.Sprintf("downloading file: %v", err))
		return
	}

	// Call extractor
	output, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   fileBytes,
		ContentType: file.ContentType,
	})
	if err != nil {
		s.handleExtractError(ctx, ord, err, maxAttempts)
		return
	}

	now := time.Now().UTC()
	ord.StructuredData = output.StructuredData
	ord.ConfidenceScores = output.ConfidenceScores
	ord.ExtractorModel = output.ModelUsed
	ord.ExtractorPrompt = output.PromptUsed
	ord.ExtractionStatus = domain.ExtractionStatusCompleted
	ord.ExtractionError = ""
	ord.ExtractedAt = &now
	ord.RetryAfter = nil

	// Save field provenance if present (dual extract mode)
	ord.FieldProvenance = json.RawMessage("{}")
	if len(output.FieldProvenance) > 0 {
		if provenanceJSON, jsonErr := json.Marshal(output.FieldProvenance); jsonErr == nil {
			ord.FieldProvenance = provenanceJSON
		}
	}

	s.completeExtraction(ctx, ord, nil)
}

// reuseExtraction copies the stored extraction of an identical file onto ord.
// Returns false when the source order cannot serve as a donor, in which case
// a fresh extraction runs.
func (s *orderService) reuseExtraction(ctx context.Context, ord *domain.PurchaseOrder, match *port.DuplicateFileMatch) bool {
	src, err := s.orderRepo.GetByID(ctx, ord.TenantID, match.OrderID)
	if err != nil {
		log.Printf("orderService.reuseExtraction: failed to load source order %s: %v", match.OrderID, err)
		return false
	}
	if src.ExtractionStatus != domain.ExtractionStatusCompleted || len(src.StructuredData) == 0 {
		return false
	}

	log.Printf("orderService.reuseExtraction: order %s reuses extraction of %s (file %s)",
		ord.ID, src.ID, match.FileName)

	now := time.Now().UTC()
	ord.StructuredData = src.StructuredData
	ord.ConfidenceScores = src.ConfidenceScores
	ord.FieldProvenance = src.FieldProvenance
	ord.ExtractorModel = src.ExtractorModel
	ord.ExtractorPrompt = src.ExtractorPrompt
	ord.FallbackUsed = src.FallbackUsed
	ord.ExtractionStatus = domain.ExtractionStatusCompleted
	ord.ExtractionError = ""
	ord.ExtractedAt = &now
	ord.RetryAfter = nil

	srcID := src.ID
	s.completeExtraction(ctx, ord, &srcID)
	return true
}

// completeExtraction runs the shared tail of a successful extraction: the
// arithmetic audit pass, persistence, events, summary upsert, validation, and
// the batch-complete notification.
func (s *orderService) completeExtraction(ctx context.Context, ord *domain.PurchaseOrder, reusedFrom *uuid.UUID) {
	stats := s.auditExtraction(ord)

	if err := s.orderRepo.UpdateExtraction(ctx, ord); err != nil {
		log.Printf("orderService.completeExtraction: failed to save results for %s: %v", ord.ID, err)
		return
	}

	if reusedFrom != nil {
		reuseChanges, _ := json.Marshal(map[string]interface{}{"source_order_id": reusedFrom.String()})
		s.event(ctx, ord.TenantID, ord.ID, nil, domain.EventExtractionReused, reuseChanges)
	} else {
		doneChanges, _ := json.Marshal(map[string]interface{}{
			"extractor_model": ord.ExtractorModel, "attempt": ord.ExtractAttempts, "fallback_used": ord.FallbackUsed,
		})
		s.event(ctx, ord.TenantID, ord.ID, nil, domain.EventExtractionCompleted, doneChanges)
	}

	log.Printf("orderService.completeExtraction: order %s extracted successfully (confidence %.2f)",
		ord.ID, ord.Confidence)

	s.writeSummary(ctx, ord, stats)

	auditChanges, _ := json.Marshal(map[string]interface{}{
		"pass": stats.Pass, "warning": stats.Warning, "failure": stats.Failure,
		"indeterminate": stats.Indeterminate, "confidence": ord.Confidence,
	})
	s.event(ctx, ord.TenantID, ord.ID, nil, domain.EventAuditCompleted, auditChanges)

	// Run rule validation after the arithmetic pass
	if s.validator != nil {
		if err := s.validator.ValidateOrder(ctx, ord.TenantID, ord.ID); err != nil {
			log.Printf("orderService.completeExtraction: validation failed for %s: %v", ord.ID, err)
		} else if updated, err := s.orderRepo.GetByID(ctx, ord.TenantID, ord.ID); err == nil {
			status := updated.AuditStatus
			if err := s.summaryRepo.UpdateStatuses(ctx, ord.ID, domain.SummaryStatusUpdate{AuditStatus: &status}); err != nil {
				log.Printf("orderService.completeExtraction: failed to sync summary status for %s: %v", ord.ID, err)
			}
		}
	}

	s.notifyBatchComplete(ctx, ord)
}

// orderAuditStats carries the aggregates of one arithmetic audit pass.
type orderAuditStats struct {
	Supplier      string
	OrderNumber   string
	OrderDate     *time.Time
	LineItemCount int
	Pass          int
	Warning       int
	Failure       int
	Indeterminate int
	TotalAmount   float64
}

// auditExtraction runs the ingestion-time audit pass over ord's structured
// data: zero tokens are discarded, missing price columns are filled from raw
// token allocation, each item is validated and scored, and verdict counts are
// aggregated. Mutates ord's structured data (allocation write-back), overall
// confidence, fallback flag, and audit status.
func (s *orderService) auditExtraction(ord *domain.PurchaseOrder) orderAuditStats {
	var stats orderAuditStats

	var doc order.PurchaseOrder
	if err := json.Unmarshal(ord.StructuredData, &doc); err != nil {
		log.Printf("orderService.auditExtraction: order %s has undecodable structured data: %v", ord.ID, err)
		ord.Confidence = 0
		ord.AuditStatus = domain.AuditStatusPending
		return stats
	}

	var scores order.OrderConfidence
	if len(ord.ConfidenceScores) > 0 {
		_ = json.Unmarshal(ord.ConfidenceScores, &scores)
	}

	stats.Supplier = doc.Header.Supplier.String()
	stats.OrderNumber = doc.Header.PONumber.String()
	stats.OrderDate = extractor.ParseOrderDate(doc.Header.OrderDate.String())
	stats.TotalAmount = audit.CleanNumber(doc.Header.TotalAmount.String())
	stats.LineItemCount = len(doc.LineItems)

	fallbackAny := false
	allocated := false
	confSum := 0.0

	for i := range doc.LineItems {
		li := &doc.LineItems[i]
		qty := audit.CleanAmount(li.Quantity.String())

		itemFallback := false
		if !li.HasStructuredPrices() {
			tokens := audit.CleanTokens(strings.Fields(li.RawPriceTokens.String()))
			alloc := audit.AllocatePrices(tokens, qty, s.auditCfg)
			if !alloc.Empty() {
				applyAllocation(li, alloc)
				itemFallback = true
				fallbackAny = true
				allocated = true
			}
		}

		res := audit.ValidateItem(audit.ItemInput{
			ListPrice:       li.Prices.ListPrice.String(),
			DiscountPercent: li.Prices.DiscountPercent.String(),
			UnitPrice:       li.Prices.UnitPrice.String(),
			Amount:          li.Prices.Amount.String(),
			Quantity:        li.Quantity.String(),
		}, itemFallback, s.auditCfg)

		// The model's per-item confidence caps the audited score
		conf := res.Confidence
		if i < len(scores.LineItems) {
			if overall := scores.LineItems[i].Overall; overall > 0 && overall < conf {
				conf = overall
			}
		}
		confSum += conf

		if len(res.Warnings) > 0 {
			log.Printf("orderService.auditExtraction: order %s item %d: %s",
				ord.ID, i+1, strings.Join(res.Warnings, "; "))
		}

		_, check := audit.CheckItem(audit.CheckInput{
			Quantity:  li.Quantity.String(),
			UnitPrice: li.Prices.UnitPrice.String(),
			Amount:    li.Prices.Amount.String(),
		}, s.auditCfg)
		switch check.Verdict {
		case audit.VerdictPass:
			stats.Pass++
		case audit.VerdictWarning:
			stats.Warning++
		case audit.VerdictFailure:
			stats.Failure++
		default:
			stats.Indeterminate++
		}
	}

	if stats.LineItemCount > 0 {
		ord.Confidence = math.Round(confSum/float64(stats.LineItemCount)*100) / 100
	} else {
		ord.Confidence = 0
	}
	ord.FallbackUsed = fallbackAny

	// Persist allocated price columns so downstream passes see them
	if allocated {
		if data, err := json.Marshal(doc); err == nil {
			ord.StructuredData = data
		}
	}

	switch {
	case stats.Failure > 0:
		ord.AuditStatus = domain.AuditStatusFailed
	case stats.Warning > 0:
		ord.AuditStatus = domain.AuditStatusWarning
	default:
		ord.AuditStatus = domain.AuditStatusPassed
	}

	return stats
}

// applyAllocation writes inferred price roles back into a line item. Existing
// values are never overwritten.
func applyAllocation(li *order.LineItem, alloc audit.Allocation) {
	set := func(dst *order.FlexString, v *float64) {
		if v != nil && *dst == "" {
			*dst = order.FlexString(strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	set(&li.Prices.ListPrice, alloc.ListPrice)
	set(&li.Prices.DiscountPercent, alloc.DiscountPercent)
	set(&li.Prices.UnitPrice, alloc.UnitPrice)
	set(&li.Prices.Amount, alloc.Amount)
}

// writeSummary upserts the denormalized order summary row.
func (s *orderService) writeSummary(ctx context.Context, ord *domain.PurchaseOrder, stats orderAuditStats) {
	if s.summaryRepo == nil {
		return
	}
	summary := &domain.OrderSummary{
		OrderID:          ord.ID,
		TenantID:         ord.TenantID,
		BatchID:          ord.BatchID,
		Supplier:         stats.Supplier,
		OrderNumber:      stats.OrderNumber,
		OrderDate:        stats.OrderDate,
		LineItemCount:    stats.LineItemCount,
		PassCount:        stats.Pass,
		WarningCount:     stats.Warning,
		FailureCount:     stats.Failure,
		TotalAmount:      stats.TotalAmount,
		Confidence:       ord.Confidence,
		ExtractionStatus: ord.ExtractionStatus,
		AuditStatus:      ord.AuditStatus,
		ReviewStatus:     ord.ReviewStatus,
	}
	if err := s.summaryRepo.Upsert(ctx, summary); err != nil {
		log.Printf("orderService.writeSummary: failed to upsert summary for %s: %v", ord.ID, err)
	}
}

// handleExtractError checks if the error is a rate limit and queues the order
// for retry if under the max attempts threshold. Otherwise, marks extraction
// as permanently failed.
func (s *orderService) handleExtractError(ctx context.Context, ord *domain.PurchaseOrder, extractErr error, maxAttempts int) {
	var rlErr *extractor.RateLimitError
	if errors.As(extractErr, &rlErr) && ord.ExtractAttempts < maxAttempts {
		retryAt := time.Now().Add(rlErr.RetryAfter)
		ord.ExtractionStatus = domain.ExtractionStatusQueued
		ord.ExtractionError = fmt.Sprintf("rate limited by %s, queued for retry", rlErr.Provider)
		ord.RetryAfter = &retryAt
		if err := s.orderRepo.UpdateExtraction(ctx, ord); err != nil {
			log.Printf("orderService.handleExtractError: failed to queue order %s: %v", ord.ID, err)
		} else {
			queueChanges, _ := json.Marshal(map[string]interface{}{
				"retry_after": retryAt.Format(time.RFC3339), "attempt": ord.ExtractAttempts,
			})
			s.event(ctx, ord.TenantID, ord.ID, nil, domain.EventExtractionQueued, queueChanges)
			log.Printf("orderService.handleExtractError: order %s queued for retry after %s", ord.ID, retryAt.Format(time.RFC3339))
		}
		return
	}
	s.failExtraction(ctx, ord, fmt.Sprintf("extracting order: %v", extractErr))
}

func (s *orderService) failExtraction(ctx context.Context, ord *domain.PurchaseOrder, errMsg string) {
	log.Printf("orderService.failExtraction: order %s failed: %s", ord.ID, errMsg)
	ord.ExtractionStatus = domain.ExtractionStatusFailed
	ord.ExtractionError = errMsg
	ord.RetryAfter = nil
	if err := s.orderRepo.UpdateExtraction(ctx, ord); err != nil {
		log.Printf("orderService.failExtraction: failed to update status for %s: %v", ord.ID, err)
	}
	failChanges, _ := json.Marshal(map[string]interface{}{"error": errMsg, "attempt": ord.ExtractAttempts})
	s.event(ctx, ord.TenantID, ord.ID, nil, domain.EventExtractionFailed, failChanges)

	if s.summaryRepo != nil {
		status := domain.ExtractionStatusFailed
		if err := s.summaryRepo.UpdateStatuses(ctx, ord.ID, domain.SummaryStatusUpdate{ExtractionStatus: &status}); err != nil {
			log.Printf("orderService.failExtraction: failed to sync summary status for %s: %v", ord.ID, err)
		}
	}

	s.notifyBatchComplete(ctx, ord)
}

// notifyBatchComplete emails the batch creator once every order in the batch
// has finished processing, whether completed or failed.
func (s *orderService) notifyBatchComplete(ctx context.Context, ord *domain.PurchaseOrder) {
	if s.emailSender == nil || s.batchRepo == nil {
		return
	}

	progress, err := s.batchRepo.GetProgress(ctx, ord.TenantID, ord.BatchID)
	if err != nil {
		log.Printf("orderService.notifyBatchComplete: failed to get progress for batch %s: %v", ord.BatchID, err)
		return
	}
	if progress.Total == 0 || progress.Pending > 0 || progress.Processing > 0 {
		return
	}

	batch, err := s.batchRepo.GetByID(ctx, ord.TenantID, ord.BatchID)
	if err != nil {
		log.Printf("orderService.notifyBatchComplete: failed to load batch %s: %v", ord.BatchID, err)
		return
	}
	creator, err := s.userRepo.GetByID(ctx, ord.TenantID, batch.CreatedBy)
	if err != nil {
		log.Printf("orderService.notifyBatchComplete: failed to load batch creator %s: %v", batch.CreatedBy, err)
		return
	}

	if err := s.emailSender.SendBatchCompleteEmail(ctx, creator.Email, creator.FullName, batch.Name, progress.Total, progress.Failed); err != nil {
		log.Printf("orderService.notifyBatchComplete: failed to send email for batch %s: %v", batch.ID, err)
		return
	}
	log.Printf("orderService.notifyBatchComplete: batch %s complete (%d orders, %d failed), notified %s",
		batch.ID, progress.Total, progress.Failed, creator.Email)
}

func (s *orderService) GetByID(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) (*domain.PurchaseOrder, error) {
	ord, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.requireBatchPerm(ctx, ord.BatchID, userID, role, domain.BatchPermissionViewer); err != nil {
		return nil, err
	}
	return ord, nil
}

func (s *orderService) GetByFileID(ctx context.Context, tenantID, fileID, userID uuid.UUID, role domain.UserRole) (*domain.PurchaseOrder, error) {
	ord, err := s.orderRepo.GetByFileID(ctx, tenantID, fileID)
	if err != nil {
		return nil, err
	}
	if err := s.requireBatchPerm(ctx, ord.BatchID, userID, role, domain.BatchPermissionViewer); err != nil {
		return nil, err
	}
	return ord, nil
}

func (s *orderService) ListByBatch(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	if err := s.requireBatchPerm(ctx, batchID, userID, role, domain.BatchPermissionViewer); err != nil {
		return nil, 0, err
	}
	return s.orderRepo.ListByBatch(ctx, tenantID, batchID, offset, limit)
}

func (s *orderService) ListByTenant(ctx context.Context, tenantID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	// Admin and member see all orders in the tenant
	if role == domain.RoleAdmin || role == domain.RoleMember {
		return s.orderRepo.ListByTenant(ctx, tenantID, offset, limit)
	}
	// Free-tier users see only orders in batches they have access to
	return s.orderRepo.ListByUserBatches(ctx, tenantID, userID, offset, limit)
}

func (s *orderService) UpdateReview(ctx context.Context, input *UpdateReviewInput) (*domain.PurchaseOrder, error) {
	ord, err := s.orderRepo.GetByID(ctx, input.TenantID, input.OrderID)
	if err != nil {
		return nil, err
	}

	// Check editor+ permission on the batch
	if err := s.requireBatchPerm(ctx, ord.BatchID, input.ReviewerID, input.Role, domain.BatchPermissionEditor); err != nil {
		return nil, err
	}

	if ord.ExtractionStatus != domain.ExtractionStatusCompleted {
		return nil, domain.ErrExtractionPending
	}

	if !validReviewTransitions[ord.ReviewStatus][input.Status] {
		return nil, domain.ErrInvalidReviewState
	}
	previous := ord.ReviewStatus

	now := time.Now().UTC()
	ord.ReviewStatus = input.Status
	ord.ReviewedBy = &input.ReviewerID
	ord.ReviewedAt = &now
	ord.ReviewerNotes = input.Notes

	if err := s.orderRepo.UpdateReviewStatus(ctx, ord); err != nil {
		return nil, fmt.Errorf("updating review status: %w", err)
	}

	if s.summaryRepo != nil {
		status := input.Status
		if err := s.summaryRepo.UpdateStatuses(ctx, ord.ID, domain.SummaryStatusUpdate{ReviewStatus: &status}); err != nil {
			log.Printf("orderService.UpdateReview: failed to sync summary status for %s: %v", ord.ID, err)
		}
	}

	reviewChanges, _ := json.Marshal(map[string]interface{}{
		"from": string(previous), "to": string(input.Status), "notes": input.Notes,
	})
	s.event(ctx, input.TenantID, input.OrderID, &input.ReviewerID, domain.EventReviewChanged, reviewChanges)

	return ord, nil
}

func (s *orderService) EditStructuredData(ctx context.Context, input *EditStructuredDataInput) (*domain.PurchaseOrder, error) {
	ord, err := s.orderRepo.GetByID(ctx, input.TenantID, input.OrderID)
	if err != nil {
		return nil, err
	}

	// Check editor+ permission on the batch
	if err := s.requireBatchPerm(ctx, ord.BatchID, input.UserID, input.Role, domain.BatchPermissionEditor); err != nil {
		return nil, err
	}

	if ord.ExtractionStatus != domain.ExtractionStatusCompleted {
		return nil, domain.ErrExtractionPending
	}

	// Validate that the structured data matches the purchase order schema
	var doc order.PurchaseOrder
	if err := json.Unmarshal(input.StructuredData, &doc); err != nil {
		return nil, domain.ErrInvalidStructuredData
	}

	// Human-verified data gets full confidence
	confidenceJSON, err := json.Marshal(buildFullOrderConfidence(&doc))
	if err != nil {
		return nil, fmt.Errorf("marshaling confidence scores: %w", err)
	}

	ord.StructuredData = input.StructuredData
	ord.ConfidenceScores = confidenceJSON
	ord.FieldProvenance = json.RawMessage(`{"source":"manual_edit"}`)

	// Re-run the arithmetic audit over the edited data
	stats := s.auditExtraction(ord)

	if err := s.orderRepo.UpdateExtraction(ctx, ord); err != nil {
		return nil, fmt.Errorf("updating structured data: %w", err)
	}

	s.event(ctx, input.TenantID, input.OrderID, &input.UserID, domain.EventDataEdited, json.RawMessage(`{"provenance":"manual_edit"}`))

	// Reset review status
	ord.ReviewStatus = domain.ReviewStatusUnreviewed
	ord.ReviewedBy = nil
	ord.ReviewedAt = nil
	ord.ReviewerNotes = ""
	if err := s.orderRepo.UpdateReviewStatus(ctx, ord); err != nil {
		return nil, fmt.Errorf("resetting review status: %w", err)
	}

	s.writeSummary(ctx, ord, stats)

	// Re-run rule validation synchronously
	if s.validator != nil {
		if err := s.validator.ValidateOrder(ctx, input.TenantID, input.OrderID); err != nil {
			log.Printf("orderService.EditStructuredData: validation failed for %s: %v", input.OrderID, err)
		}
	}

	// Re-fetch to get the rolled-up audit status
	updated, err := s.orderRepo.GetByID(ctx, input.TenantID, input.OrderID)
	if err != nil {
		return nil, fmt.Errorf("re-fetching order after edit: %w", err)
	}

	if s.summaryRepo != nil {
		status := updated.AuditStatus
		if err := s.summaryRepo.UpdateStatuses(ctx, ord.ID, domain.SummaryStatusUpdate{AuditStatus: &status}); err != nil {
			log.Printf("orderService.EditStructuredData: failed to sync summary status for %s: %v", ord.ID, err)
		}
	}

	return updated, nil
}

// buildFullOrderConfidence creates confidence scores with all fields set to 1.0.
func buildFullOrderConfidence(doc *order.PurchaseOrder) order.OrderConfidence {
	scores := order.OrderConfidence{
		Header: order.HeaderConfidence{
			Supplier:      1.0,
			Purchaser:     1.0,
			VendorOrderNo: 1.0,
			PONumber:      1.0,
			OrderDate:     1.0,
			Address:       1.0,
			TotalAmount:   1.0,
		},
		Notes: 1.0,
	}

	lineItems := make([]order.LineItemConfidence, len(doc.LineItems))
	for i := range lineItems {
		lineItems[i] = order.LineItemConfidence{
			Index:       1.0,
			ItemDate:    1.0,
			ItemOrderNo: 1.0,
			Brand:       1.0,
			ProductName: 1.0,
			Spec:        1.0,
			Quantity:    1.0,
			Unit:        1.0,
			Prices: order.PriceConfidence{
				ListPrice:       1.0,
				DiscountPercent: 1.0,
				UnitPrice:       1.0,
				Amount:          1.0,
			},
			RawPriceTokens: 1.0,
			Weight:         1.0,
			Remarks:        1.0,
			Overall:        1.0,
		}
	}
	scores.LineItems = lineItems

	return scores
}

func (s *orderService) RetryExtraction(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) (*domain.PurchaseOrder, error) {
	ord, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	// Check editor+ permission on the batch
	if err := s.requireBatchPerm(ctx, ord.BatchID, userID, role, domain.BatchPermissionEditor); err != nil {
		return nil, err
	}

	if ord.ExtractionStatus == domain.ExtractionStatusProcessing || ord.ExtractionStatus == domain.ExtractionStatusQueued {
		return nil, domain.ErrExtractionRunning
	}

	// Verify the file still exists
	if _, err := s.fileRepo.GetByID(ctx, tenantID, ord.FileID); err != nil {
		return nil, fmt.Errorf("looking up file for retry: %w", err)
	}

	// Reset to pending
	ord.ExtractionStatus = domain.ExtractionStatusPending
	ord.ExtractionError = ""
	ord.StructuredData = json.RawMessage("{}")
	ord.ConfidenceScores = json.RawMessage("{}")
	ord.FieldProvenance = json.RawMessage("{}")
	ord.Confidence = 0
	ord.FallbackUsed = false
	ord.AuditStatus = domain.AuditStatusPending
	ord.RetryAfter = nil
	if err := s.orderRepo.UpdateExtraction(ctx, ord); err != nil {
		return nil, fmt.Errorf("resetting order for retry: %w", err)
	}

	if s.summaryRepo != nil {
		extStatus := domain.ExtractionStatusPending
		auditStatus := domain.AuditStatusPending
		if err := s.summaryRepo.UpdateStatuses(ctx, ord.ID, domain.SummaryStatusUpdate{
			ExtractionStatus: &extStatus,
			AuditStatus:      &auditStatus,
		}); err != nil {
			log.Printf("orderService.RetryExtraction: failed to sync summary status for %s: %v", ord.ID, err)
		}
	}

	s.event(ctx, tenantID, orderID, &userID, domain.EventExtractionRetried, nil)

	log.Printf("orderService.RetryExtraction: retrying extraction for order %s", orderID)

	// Copy before launching goroutine so the caller's value is independent of background work
	result := *ord

	go s.extractInBackground(ord.ID, ord.TenantID)

	return &result, nil
}

func (s *orderService) ValidateOrder(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) error {
	ord, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if err := s.requireBatchPerm(ctx, ord.BatchID, userID, role, domain.BatchPermissionEditor); err != nil {
		return err
	}
	if ord.ExtractionStatus != domain.ExtractionStatusCompleted {
		return domain.ErrExtractionPending
	}
	if s.validator == nil {
		return fmt.Errorf("validation engine not configured")
	}
	if err := s.validator.ValidateOrder(ctx, tenantID, orderID); err != nil {
		return err
	}
	if updated, err := s.orderRepo.GetByID(ctx, tenantID, orderID); err == nil {
		statusChanges, _ := json.Marshal(map[string]string{"audit_status": string(updated.AuditStatus), "trigger": "manual"})
		s.event(ctx, tenantID, orderID, &userID, domain.EventAuditCompleted, statusChanges)
		if s.summaryRepo != nil {
			status := updated.AuditStatus
			if err := s.summaryRepo.UpdateStatuses(ctx, orderID, domain.SummaryStatusUpdate{AuditStatus: &status}); err != nil {
				log.Printf("orderService.ValidateOrder: failed to sync summary status for %s: %v", orderID, err)
			}
		}
	}
	return nil
}

func (s *orderService) GetValidation(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) (*validator.ValidationResponse, error) {
	ord, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.requireBatchPerm(ctx, ord.BatchID, userID, role, domain.BatchPermissionViewer); err != nil {
		return nil, err
	}
	if s.validator == nil {
		return nil, fmt.Errorf("validation engine not configured")
	}
	return s.validator.GetValidation(ctx, tenantID, orderID)
}

func (s *orderService) Delete(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) error {
	ord, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if err := s.requireBatchPerm(ctx, ord.BatchID, userID, role, domain.BatchPermissionEditor); err != nil {
		return err
	}
	log.Printf("orderService.Delete: deleting order %s by user %s", orderID, userID)
	return s.orderRepo.Delete(ctx, tenantID, orderID)
}

func (s *orderService) ListTags(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) ([]domain.OrderTag, error) {
	ord, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.requireBatchPerm(ctx, ord.BatchID, userID, role, domain.BatchPermissionViewer); err != nil {
		return nil, err
	}
	return s.tagRepo.ListByOrder(ctx, orderID)
}

func (s *orderService) AddTags(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole, tagsMap map[string]string) ([]domain.OrderTag, error) {
	ord, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.requireBatchPerm(ctx, ord.BatchID, userID, role, domain.BatchPermissionEditor); err != nil {
		return nil, err
	}

	tags := make([]domain.OrderTag, 0, len(tagsMap))
	for k, v := range tagsMap {
		tags = append(tags, domain.OrderTag{
			ID:       uuid.New(),
			OrderID:  orderID,
			TenantID: tenantID,
			Key:      k,
			Value:    v,
		})
	}

	if err := s.tagRepo.CreateBatch(ctx, tags); err != nil {
		return nil, fmt.Errorf("adding tags: %w", err)
	}

	return tags, nil
}

func (s *orderService) DeleteTag(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole, tagID uuid.UUID) error {
	ord, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if err := s.requireBatchPerm(ctx, ord.BatchID, userID, role, domain.BatchPermissionEditor); err != nil {
		return err
	}
	return s.tagRepo.DeleteByID(ctx, orderID, tagID)
}

func (s *orderService) SearchByTag(ctx context.Context, tenantID uuid.UUID, key, value string, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	return s.tagRepo.SearchByTag(ctx, tenantID, key, value, offset, limit)
}

func (s *orderService) ListEvents(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.OrderEvent, int, error) {
	ord, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.requireBatchPerm(ctx, ord.BatchID, userID, role, domain.BatchPermissionViewer); err != nil {
		return nil, 0, err
	}
	return s.eventRepo.ListByOrder(ctx, tenantID, orderID, offset, limit)
}
