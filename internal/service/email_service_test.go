package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/washpoint-next/internal/config"
	"github.com/washpoint-next/internal/constants"
	"github.com/washpoint-next/internal/models"

	"github.com/shopspring/decimal"
)

func TestBuildOrderStatusContent(t *testing.T) {
	tests := []struct {
		name             string
		status           string
		wantBodyContains []string
	}{
		{
			name:             "for_pickup",
			status:           constants.OrderStatusForPickup,
			wantBodyContains: []string{"pick up your laundry"},
		},
		{
			name:             "processing",
			status:           constants.OrderStatusProcessing,
			wantBodyContains: []string{"being processed"},
		},
		{
			name:             "for_delivery",
			status:           constants.OrderStatusForDelivery,
			wantBodyContains: []string{"out for delivery"},
		},
		{
			name:             "completed",
			status:           constants.OrderStatusCompleted,
			wantBodyContains: []string{"complete", "Thank you"},
		},
		{
			name:             "cancelled",
			status:           constants.OrderStatusCancelled,
			wantBodyContains: []string{"cancelled"},
		},
		{
			name:             "unknown_status",
			status:           "folded-twice",
			wantBodyContains: []string{`"folded-twice"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := buildOrderStatusContent(OrderStatusEmailInput{
				OrderNo:      "WP20260828000001",
				CustomerName: "Maria",
				Status:       tt.status,
				Amount:       models.NewMoneyFromDecimal(decimal.NewFromInt(160)),
			})
			if !strings.Contains(subject, "WP20260828000001") {
				t.Fatalf("subject should carry order no, got %q", subject)
			}
			if !strings.Contains(body, "Hi Maria") {
				t.Fatalf("body should greet customer, got %q", body)
			}
			if !strings.Contains(body, "160.00") {
				t.Fatalf("body should carry total, got %q", body)
			}
			for _, want := range tt.wantBodyContains {
				if !strings.Contains(body, want) {
					t.Fatalf("body should contain %q, got %q", want, body)
				}
			}
		})
	}
}

func TestBuildOrderReceiptContent(t *testing.T) {
	subject, body := buildOrderReceiptContent(OrderReceiptEmailInput{
		OrderNo: "WP20260828000002",
		Amount:  models.NewMoneyFromDecimal(decimal.NewFromInt(95)),
		Lines:   []string{"Basket 1  Premium Wash         95.00"},
	})
	if !strings.Contains(subject, "WP20260828000002") {
		t.Fatalf("subject should carry order no, got %q", subject)
	}
	if !strings.Contains(body, "Hi there") {
		t.Fatalf("empty customer name should fall back to greeting, got %q", body)
	}
	if !strings.Contains(body, "Premium Wash") {
		t.Fatalf("body should carry receipt lines, got %q", body)
	}
	if !strings.Contains(body, "Total: 95.00") {
		t.Fatalf("body should carry total, got %q", body)
	}
}

func TestSendTextEmailConfigGuards(t *testing.T) {
	disabled := NewEmailService(&config.EmailConfig{Enabled: false})
	if err := disabled.SendCustomEmail("x@example.com", "", ""); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("disabled service want ErrEmailServiceDisabled got %v", err)
	}

	unconfigured := NewEmailService(&config.EmailConfig{Enabled: true})
	if err := unconfigured.SendCustomEmail("x@example.com", "", ""); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("unconfigured service want ErrEmailServiceNotConfigured got %v", err)
	}

	configured := NewEmailService(&config.EmailConfig{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "noreply@example.com",
	})
	if err := configured.SendCustomEmail("not-an-address", "", ""); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("bad receiver want ErrInvalidEmail got %v", err)
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	if !isEmailRecipientRejected(errors.New("550 5.1.1 Recipient address rejected: User unknown")) {
		t.Fatalf("expected recipient rejection to be detected")
	}
	if isEmailRecipientRejected(errors.New("dial tcp: connection refused")) {
		t.Fatalf("transport errors are not recipient rejections")
	}
	if isEmailRecipientRejected(nil) {
		t.Fatalf("nil error is not a rejection")
	}
}
