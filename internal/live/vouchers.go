package live

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
)

// VoucherInput carries voucher create and update fields. Nil pointers leave
// the field alone on update.
type VoucherInput struct {
	StreamID  uuid.UUID
	Code      string
	Type      enums.VoucherType
	Value     *decimal.Decimal
	StartTime *time.Time
	EndTime   *time.Time
	IsActive  *bool
	ActorInput
}

func (s *service) CreateVoucher(ctx context.Context, input VoucherInput) (*models.LiveVoucher, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher code required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid voucher type")
	}
	if input.Value == nil || !input.Value.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher value must be positive")
	}
	if input.Type == enums.VoucherTypePercentage && input.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage voucher cannot exceed 100")
	}
	if input.StartTime == nil || input.EndTime == nil || !input.EndTime.After(*input.StartTime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher window must end after it starts")
	}
	if _, err := s.GetStream(ctx, input.StreamID); err != nil {
		return nil, err
	}

	voucher := &models.LiveVoucher{
		LiveStreamID: input.StreamID,
		Code:         code,
		Type:         input.Type,
		Value:        *input.Value,
		StartTime:    input.StartTime.UTC(),
		EndTime:      input.EndTime.UTC(),
		IsActive:     true,
	}
	if input.IsActive != nil {
		voucher.IsActive = *input.IsActive
	}
	created, err := s.repo.CreateVoucher(ctx, voucher)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create voucher")
	}
	return created, nil
}

func (s *service) ListVouchers(ctx context.Context, streamID uuid.UUID) ([]models.LiveVoucher, error) {
	vouchers, err := s.repo.ListVouchersByStream(ctx, streamID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vouchers")
	}
	return vouchers, nil
}

func (s *service) UpdateVoucher(ctx context.Context, voucherID uuid.UUID, input VoucherInput) (*models.LiveVoucher, error) {
	current, err := s.repo.FindVoucher(ctx, voucherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find voucher")
	}

	updates := map[string]any{}
	if code := strings.ToUpper(strings.TrimSpace(input.Code)); code != "" {
		updates["code"] = code
	}
	if input.Type != "" {
		if !input.Type.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid voucher type")
		}
		updates["type"] = input.Type
	}
	if input.Value != nil {
		if !input.Value.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher value must be positive")
		}
		updates["value"] = *input.Value
	}
	// Validate the window against the stored bounds when only one end moves.
	start, end := current.StartTime, current.EndTime
	if input.StartTime != nil {
		start = input.StartTime.UTC()
		updates["start_time"] = start
	}
	if input.EndTime != nil {
		end = input.EndTime.UTC()
		updates["end_time"] = end
	}
	if (input.StartTime != nil || input.EndTime != nil) && !end.After(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher window must end after it starts")
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no voucher fields provided")
	}

	if err := s.repo.UpdateVoucher(ctx, voucherID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update voucher")
	}
	voucher, err := s.repo.FindVoucher(ctx, voucherID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload voucher")
	}
	return voucher, nil
}

// DeleteVoucher refuses while any live order references the voucher, so the
// denormalized discount history keeps its provenance.
func (s *service) DeleteVoucher(ctx context.Context, voucherID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		refs, err := repo.CountLiveOrdersByVoucher(ctx, voucherID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count voucher redemptions")
		}
		if refs > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "voucher has been redeemed by live orders")
		}
		if err := repo.DeleteVoucher(ctx, voucherID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "voucher not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete voucher")
		}
		return nil
	})
}
