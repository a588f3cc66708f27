package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for check-in and check-out dates.
const DateLayout = "2006-01-02"

// DraftInput is the user-entered half of a booking request.
type DraftInput struct {
	RoomID   string `json:"roomId" validate:"required"`
	Account  string `json:"account" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	CheckIn  string `json:"checkIn" validate:"required"`
	CheckOut string `json:"checkOut" validate:"required"`
}

// Draft is an unconfirmed booking request. It is never stored by the core.
type Draft struct {
	RoomID     string `json:"roomId" validate:"required"`
	Account    string `json:"account" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	CampName   string `json:"campName" validate:"required"`
	RoomName   string `json:"roomName" validate:"required"`
	CheckIn    string `json:"checkIn" validate:"required"`
	CheckOut   string `json:"checkOut" validate:"required"`
	Nights     int    `json:"nights" validate:"gt=0"`
	TotalPrice int64  `json:"totalPrice" validate:"gt=0"`
}

// Fingerprint identifies a draft by content, so two submits of the same form collide.
func (d Draft) Fingerprint() string {
	sig := strings.Join([]string{
		d.RoomID, d.Account, d.Name, d.Phone, d.CampName, d.RoomName, d.CheckIn, d.CheckOut,
		strconv.Itoa(d.Nights), strconv.FormatInt(d.TotalPrice, 10),
	}, "|")
	sum := sha1.Sum([]byte(sig))
	return hex.EncodeToString(sum[:])
}

// Booking is a confirmed order. Fields are copied from the Draft at confirmation time.
type Booking struct {
	ID          string    `json:"id"`
	Account     string    `json:"account"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	CampName    string    `json:"campName"`
	RoomName    string    `json:"roomName"`
	CheckIn     string    `json:"checkIn"`
	CheckOut    string    `json:"checkOut"`
	Nights      int       `json:"nights"`
	TotalPrice  int64     `json:"totalPrice"`
	Payment     string    `json:"payment,omitempty"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

type PaymentType string

const (
	PaymentTransfer PaymentType = "transfer"
	PaymentCard     PaymentType = "card"
	PaymentCash     PaymentType = "cash"
)

type Payment struct {
	Type    PaymentType `json:"type" validate:"required,oneof=transfer card cash"`
	Details string      `json:"details"`
}

// BookingState is the lifecycle of one submit attempt.
type BookingState string

const (
	StateDrafted    BookingState = "DRAFTED"
	StateSubmitting BookingState = "SUBMITTING"
	StateConfirmed  BookingState = "CONFIRMED"
	StateFailed     BookingState = "FAILED"
)

// Charge is what the payment gateway sees.
type Charge struct {
	IdentityID string
	Amount     int64
	Payment    Payment
}
