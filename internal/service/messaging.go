package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/poornesh-v09/Milk-Management/internal/models"
	"github.com/poornesh-v09/Milk-Management/internal/repository"
)

// GenerateBillMessage renders the fixed bill-notification template
func GenerateBillMessage(customerName, monthYear string, liters, amount float64) string {
	return fmt.Sprintf(`Hello %s,
Milk Bill for %s

Total Milk: %.2f L
Amount: ₹%.2f

Thank you,
Agaram Milk`, customerName, monthYear, liters, amount)
}

// BillMessageInput requests a bill notification for one customer and month.
// Month is zero-indexed, like the report queries.
type BillMessageInput struct {
	CustomerID string                `json:"customerId"`
	Month      int                   `json:"month"`
	Year       int                   `json:"year"`
	Channel    models.MessageChannel `json:"channel"`
}

// BillMessageResult is the outcome of one simulated send
type BillMessageResult struct {
	Log     models.MessageLog `json:"log"`
	Message string            `json:"message"`
	Sent    bool              `json:"sent"`
}

// SendBillMessage renders the customer's monthly bill, records a log entry
// and runs the simulated send. No real delivery channel is integrated.
func (s *service) SendBillMessage(ctx context.Context, input BillMessageInput) (*BillMessageResult, error) {
	if input.Channel != models.ChannelSMS && input.Channel != models.ChannelWhatsApp {
		return nil, invalidf("channel must be SMS or WhatsApp, got %q", input.Channel)
	}
	if err := checkMonth(input.Month, input.Year); err != nil {
		return nil, err
	}

	txn := s.startTransaction("send-bill-message")
	defer s.endTransaction(txn)
	s.addAttribute(txn, "customer_id", input.CustomerID)
	s.addAttribute(txn, "channel", string(input.Channel))

	customer, err := s.customers.FindByCustomerID(ctx, input.CustomerID)
	if err != nil {
		s.recordError(txn, err)
		return nil, err
	}

	report, err := s.MonthlyReport(ctx, input.Month, input.Year)
	if err != nil {
		s.recordError(txn, err)
		return nil, err
	}
	var liters, amount float64
	for _, item := range report {
		if item.CustomerID == customer.CustomerID {
			liters = item.TotalLiters
			amount = item.TotalAmount
			break
		}
	}

	monthYear := fmt.Sprintf("%s %d", time.Month(input.Month+1), input.Year)
	message := GenerateBillMessage(customer.Name, monthYear, liters, amount)

	entry := models.MessageLog{
		LogID:      uuid.New().String(),
		CustomerID: customer.CustomerID,
		Month:      input.Month,
		Year:       input.Year,
		Channel:    input.Channel,
		Status:     models.MessagePending,
		Timestamp:  time.Now(),
	}
	if err := s.messages.Create(ctx, &entry); err != nil {
		s.recordError(txn, err)
		return nil, err
	}

	entry.Status = s.simulateSend(ctx)
	if err := s.messages.UpdateStatus(ctx, entry.LogID, entry.Status); err != nil {
		s.recordError(txn, err)
		return nil, err
	}

	log.Info().
		Str("customer_id", entry.CustomerID).
		Str("channel", string(entry.Channel)).
		Str("status", string(entry.Status)).
		Msg("Bill message processed")

	return &BillMessageResult{
		Log:     entry,
		Message: message,
		Sent:    entry.Status == models.MessageSent,
	}, nil
}

// simulateSend stands in for a real SMS/WhatsApp gateway call: a short
// artificial delay, then a configurable failure rate.
func (s *service) simulateSend(ctx context.Context) models.MessageStatus {
	if s.messaging.SendDelay > 0 {
		select {
		case <-time.After(s.messaging.SendDelay):
		case <-ctx.Done():
			return models.MessageFailed
		}
	}
	if s.messaging.FailureRate > 0 && rand.Float64() < s.messaging.FailureRate {
		return models.MessageFailed
	}
	return models.MessageSent
}

func (s *service) ListMessages(ctx context.Context, filter repository.MessageFilter) ([]models.MessageLog, error) {
	return s.messages.List(ctx, filter)
}

// DispatchPendingMessages re-drives logs stuck in Pending, which happens
// when the process died between recording the attempt and the send. It
// returns the number of logs processed.
func (s *service) DispatchPendingMessages(ctx context.Context) (int, error) {
	txn := s.startTransaction("dispatch-pending-messages")
	defer s.endTransaction(txn)

	cutoff := time.Now().Add(-s.pendingAge)
	pending, err := s.messages.ListPendingBefore(ctx, cutoff)
	if err != nil {
		s.recordError(txn, err)
		return 0, err
	}
	s.addAttribute(txn, "pending", len(pending))

	for _, entry := range pending {
		status := s.simulateSend(ctx)
		if err := s.messages.UpdateStatus(ctx, entry.LogID, status); err != nil {
			s.recordError(txn, err)
			return 0, err
		}
		log.Info().
			Str("log_id", entry.LogID).
			Str("status", string(status)).
			Msg("Re-drove pending bill message")
	}

	return len(pending), nil
}
