package models

import (
	"time"
)

// Model is the base row with internal identity and timestamps. The business
// identifiers the API exposes live on each entity, not here.
type Model struct {
	ID        uint      `json:"-" gorm:"primarykey"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Shift is a delivery window
type Shift string

const (
	ShiftMorning Shift = "Morning"
	ShiftEvening Shift = "Evening"
	ShiftBoth    Shift = "Both"
)

// DeliveryStatus marks a delivery item or attendance entry outcome
type DeliveryStatus string

const (
	StatusDelivered DeliveryStatus = "Delivered"
	StatusAbsent    DeliveryStatus = "Absent"
)

// MessageChannel is a bill-notification channel
type MessageChannel string

const (
	ChannelSMS      MessageChannel = "SMS"
	ChannelWhatsApp MessageChannel = "WhatsApp"
)

// MessageStatus is the lifecycle state of a bill-notification attempt
type MessageStatus string

const (
	MessagePending MessageStatus = "Pending"
	MessageSent    MessageStatus = "Sent"
	MessageFailed  MessageStatus = "Failed"
)

// ProductMilk is the product whose quantities drive attendance sheets and
// the totalLiters report figure.
const ProductMilk = "Milk"

// DefaultMilkPrice is used for attendance sheets when no Milk price is stored.
const DefaultMilkPrice = 58

// StandardProducts always appear in product statistics, even with zero totals.
var StandardProducts = []string{"Milk", "Curd", "Ghee", "Paneer"}

// Subscription is a customer's standing daily order for one product
type Subscription struct {
	Product  string  `json:"product" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
}

// Customer represents a subscribing household
type Customer struct {
	Model
	CustomerID    string         `json:"id" gorm:"column:customer_id;uniqueIndex"`
	Name          string         `json:"name" validate:"required"`
	Address       string         `json:"address" validate:"required"`
	Mobile        string         `json:"mobile" validate:"required"`
	Subscriptions []Subscription `json:"subscriptions" gorm:"serializer:json;type:jsonb" validate:"dive"`
	JoinDate      string         `json:"joinDate" validate:"required"`
	IsActive      bool           `json:"isActive" gorm:"index"`
	AssignedTo    string         `json:"assignedTo" gorm:"index"`
	DeliveryShift []Shift        `json:"deliveryShift" gorm:"serializer:json;type:jsonb" validate:"min=1,dive,oneof=Morning Evening"`
}

// DeliveryMember represents a delivery person
type DeliveryMember struct {
	Model
	MemberID string `json:"id" gorm:"column:member_id;uniqueIndex"`
	Name     string `json:"name" validate:"required"`
	Mobile   string `json:"mobile" validate:"required"`
	Route    string `json:"route"`
	Shift    Shift  `json:"shift" validate:"oneof=Morning Evening Both"`
	IsActive bool   `json:"isActive"`
}

// Price maps a product name to its current unit price. Delivery items carry
// their own price snapshot, so editing a Price never reprices history.
type Price struct {
	Model
	Product string  `json:"product" gorm:"uniqueIndex" validate:"required"`
	Price   float64 `json:"price" validate:"gte=0"`
}

// DeliveryItem is one product line of a delivery record
type DeliveryItem struct {
	Product  string         `json:"product" validate:"required"`
	Quantity float64        `json:"quantity" validate:"gte=0"`
	Status   DeliveryStatus `json:"status" validate:"oneof=Delivered Absent"`
	// PriceCheck is the unit price snapshotted when the record was saved.
	PriceCheck float64 `json:"priceCheck"`
}

// DeliveryRecord is the delivered/absent outcome for one customer on one date
type DeliveryRecord struct {
	Model
	RecordID   string         `json:"id" gorm:"column:record_id;uniqueIndex" validate:"required"`
	Date       string         `json:"date" gorm:"index:idx_delivery_date_customer" validate:"required"`
	CustomerID string         `json:"customerId" gorm:"index:idx_delivery_date_customer;index" validate:"required"`
	Items      []DeliveryItem `json:"items" gorm:"serializer:json;type:jsonb" validate:"dive"`
}

// AttendanceEntry is one customer line of an attendance submission
type AttendanceEntry struct {
	CustomerID        string         `json:"customerId" validate:"required"`
	CustomerName      string         `json:"customerName" validate:"required"`
	FixedQuantity     float64        `json:"fixedQuantity" validate:"gte=0"`
	DeliveredQuantity float64        `json:"deliveredQuantity" validate:"gte=0"`
	Status            DeliveryStatus `json:"status" validate:"oneof=Delivered Absent"`
	PricePerLiter     float64        `json:"pricePerLiter" validate:"gte=0"`
	DeliveryShift     []Shift        `json:"deliveryShift"`
}

// Attendance is a delivery person's end-of-day submission for one date.
// The compound unique index makes submission append-only per (date, person).
type Attendance struct {
	ID                 uint              `json:"id" gorm:"primarykey"`
	CreatedAt          time.Time         `json:"-"`
	UpdatedAt          time.Time         `json:"-"`
	Date               string            `json:"date" gorm:"uniqueIndex:idx_attendance_date_person" validate:"required"`
	DeliveryPersonID   string            `json:"deliveryPersonId" gorm:"uniqueIndex:idx_attendance_date_person;index" validate:"required"`
	DeliveryPersonName string            `json:"deliveryPersonName" validate:"required"`
	Entries            []AttendanceEntry `json:"entries" gorm:"serializer:json;type:jsonb" validate:"dive"`
	SubmittedAt        time.Time         `json:"submittedAt"`
}

// MessageLog records one bill-notification attempt. The store does not
// deduplicate attempts per (customer, month, year, channel).
type MessageLog struct {
	Model
	LogID      string         `json:"id" gorm:"column:log_id;uniqueIndex"`
	CustomerID string         `json:"customerId" gorm:"index"`
	Month      int            `json:"month"`
	Year       int            `json:"year"`
	Channel    MessageChannel `json:"channel"`
	Status     MessageStatus  `json:"status" gorm:"index"`
	Timestamp  time.Time      `json:"timestamp"`
}
