package mysql

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRecord is the gorm row for the projected order. Line items are kept
// as a JSON column; the projection is read wholesale, never joined.
type OrderRecord struct {
	ID              uint64 `gorm:"primaryKey"`
	OrderStatusID   int    `gorm:"not null;index"`
	PaymentStatusID int    `gorm:"not null;index"`

	CustomerName string `gorm:"size:255;index"`
	PhoneNumber  string `gorm:"size:32"`

	Address      string `gorm:"size:255"`
	Number       string `gorm:"size:32"`
	Complement   string `gorm:"size:255"`
	City         string `gorm:"size:128"`
	Neighborhood string `gorm:"size:128"`
	ZipCode      string `gorm:"size:16"`

	Notes         string `gorm:"size:1024"`
	PaymentMethod string `gorm:"size:32"`
	SaleType      int

	PixCode         string `gorm:"type:text"`
	PixQrCodeBase64 string `gorm:"type:mediumtext"`
	CardBrand       string `gorm:"size:32"`
	CardLast4       string `gorm:"size:8"`

	Subtotal     float64
	ShippingCost float64
	TotalAmount  float64

	ItemsJSON string `gorm:"type:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OrderRecord) TableName() string { return "order_projections" }

type orderProjectionRepo struct {
	db *gorm.DB
}

func NewOrderProjectionRepository(db *gorm.DB) repository.OrderProjectionRepository {
	return &orderProjectionRepo{db: db}
}

func toRecord(o *domain.Order) (*OrderRecord, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, err
	}
	return &OrderRecord{
		ID:              o.ID,
		OrderStatusID:   int(o.OrderStatusID),
		PaymentStatusID: int(o.PaymentStatusID),
		CustomerName:    o.CustomerName,
		PhoneNumber:     o.PhoneNumber,
		Address:         o.Address,
		Number:          o.Number,
		Complement:      o.Complement,
		City:            o.City,
		Neighborhood:    o.Neighborhood,
		ZipCode:         o.ZipCode,
		Notes:           o.Notes,
		PaymentMethod:   o.PaymentMethod,
		SaleType:        int(o.SaleType),
		PixCode:         o.PixCode,
		PixQrCodeBase64: o.PixQrCodeBase64,
		CardBrand:       o.CardBrand,
		CardLast4:       o.CardLast4,
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		TotalAmount:     o.TotalAmount,
		ItemsJSON:       string(items),
		CreatedAt:       o.CreatedAt,
	}, nil
}

func toDomain(r *OrderRecord) *domain.Order {
	var items []domain.OrderItem
	if r.ItemsJSON != "" {
		if err := json.Unmarshal([]byte(r.ItemsJSON), &items); err != nil {
			log.Printf("projection %d: decode items: %v", r.ID, err)
		}
	}
	return &domain.Order{
		ID:              r.ID,
		OrderStatusID:   domain.OrderStatus(r.OrderStatusID),
		PaymentStatusID: domain.PaymentStatus(r.PaymentStatusID),
		CustomerName:    r.CustomerName,
		PhoneNumber:     r.PhoneNumber,
		Address:         r.Address,
		Number:          r.Number,
		Complement:      r.Complement,
		City:            r.City,
		Neighborhood:    r.Neighborhood,
		ZipCode:         r.ZipCode,
		Notes:           r.Notes,
		PaymentMethod:   r.PaymentMethod,
		SaleType:        domain.SaleType(r.SaleType),
		PixCode:         r.PixCode,
		PixQrCodeBase64: r.PixQrCodeBase64,
		CardBrand:       r.CardBrand,
		CardLast4:       r.CardLast4,
		Subtotal:        r.Subtotal,
		ShippingCost:    r.ShippingCost,
		TotalAmount:     r.TotalAmount,
		CreatedAt:       r.CreatedAt,
		Items:           items,
	}
}

// Upsert replaces the whole row; the projection mirrors server truth and
// is never patched field by field.
func (r *orderProjectionRepo) Upsert(order *domain.Order) error {
	rec, err := toRecord(order)
	if err != nil {
		return err
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(rec)
	if result.Error != nil {
		log.Printf("projection upsert %d: %v", order.ID, result.Error)
		return result.Error
	}
	return nil
}

// UpdateStatus patches only the two status ids, the single exception to
// the replace-wholesale rule.
func (r *orderProjectionRepo) UpdateStatus(id uint64, orderStatus domain.OrderStatus, paymentStatus domain.PaymentStatus) error {
	result := r.db.Model(&OrderRecord{}).Where("id = ?", id).Updates(map[string]any{
		"order_status_id":   int(orderStatus),
		"payment_status_id": int(paymentStatus),
	})
	if result.Error != nil {
		log.Printf("projection status update %d: %v", id, result.Error)
		return result.Error
	}
	return nil
}

func (r *orderProjectionRepo) FindByID(id uint64) (*domain.Order, error) {
	var rec OrderRecord
	if err := r.db.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(&rec), nil
}

func (r *orderProjectionRepo) List(q repository.OrderListQuery) (*domain.PagedResult[domain.OrderSummary], error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}

	tx := r.db.Model(&OrderRecord{})
	if q.Search != "" {
		tx = tx.Where("customer_name LIKE ?", "%"+q.Search+"%")
	}
	if q.OrderStatus != nil {
		tx = tx.Where("order_status_id = ?", int(*q.OrderStatus))
	}
	if q.PaymentStatus != nil {
		tx = tx.Where("payment_status_id = ?", int(*q.PaymentStatus))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var recs []OrderRecord
	err := tx.Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderSummary, 0, len(recs))
	for i := range recs {
		items = append(items, domain.OrderSummary{
			ID:           recs[i].ID,
			Status:       domain.OrderStatus(recs[i].OrderStatusID).String(),
			CustomerName: recs[i].CustomerName,
			TotalAmount:  recs[i].TotalAmount,
			CreatedAt:    recs[i].CreatedAt,
		})
	}

	return &domain.PagedResult[domain.OrderSummary]{
		Items:      items,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}
