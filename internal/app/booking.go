package app

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"campfind/internal/domain"
)

const (
	attemptRetention = 10 * time.Minute
	secondsPerDay    = 24 * 60 * 60
)

// RoomResolver looks up the room and its camp for a draft.
type RoomResolver interface {
	GetRoom(ctx context.Context, id string) (domain.Room, error)
	GetCamp(ctx context.Context, id string) (domain.Camp, error)
}

// SessionHandle is what the booking flow needs from a session.
type SessionHandle interface {
	IdentitySource
	HoldDraft(d domain.Draft)
}

// BookingFlow turns drafts into confirmed bookings through the payment gateway.
type BookingFlow struct {
	rooms    RoomResolver
	ledger   *Ledger
	gateway  domain.PaymentGateway
	notifier domain.Notifier
	validate *validator.Validate
	now      func() time.Time
	newID    func() string

	mu       sync.Mutex
	inflight map[string]*Attempt
	attempts map[string]*Attempt
}

func NewBookingFlow(rooms RoomResolver, ledger *Ledger, gw domain.PaymentGateway, n domain.Notifier) *BookingFlow {
	return &BookingFlow{
		rooms:    rooms,
		ledger:   ledger,
		gateway:  gw,
		notifier: n,
		validate: newValidator(),
		now:      time.Now,
		newID:    newUUIDv7,
		inflight: map[string]*Attempt{},
		attempts: map[string]*Attempt{},
	}
}

// Nights counts the nights between two dates, rounding a partial day up.
func Nights(checkIn, checkOut string) (int, error) {
	in, err := time.Parse(domain.DateLayout, checkIn)
	if err != nil {
		return 0, domain.Validation("invalid check-in date",
			domain.FieldError{Field: "checkIn", Message: "must be YYYY-MM-DD"})
	}
	out, err := time.Parse(domain.DateLayout, checkOut)
	if err != nil {
		return 0, domain.Validation("invalid check-out date",
			domain.FieldError{Field: "checkOut", Message: "must be YYYY-MM-DD"})
	}
	// whole seconds, so ranges beyond time.Duration still count exactly
	secs := out.Unix() - in.Unix()
	n := secs / secondsPerDay
	if secs%secondsPerDay > 0 {
		n++
	}
	if n <= 0 {
		return 0, domain.Validation("check-out date must be later than check-in date",
			domain.FieldError{Field: "checkOut", Message: "must be after checkIn"})
	}
	return int(n), nil
}

// BuildDraft validates the form against a room and prices it.
func (f *BookingFlow) BuildDraft(camp domain.Camp, room domain.Room, in domain.DraftInput) (domain.Draft, error) {
	in = trimInput(in)
	if err := f.validate.Struct(in); err != nil {
		return domain.Draft{}, validationErr("all fields are required", err)
	}
	if !room.Available {
		return domain.Draft{}, domain.Validation("room is fully booked",
			domain.FieldError{Field: "roomId", Message: "not available"})
	}
	nights, err := Nights(in.CheckIn, in.CheckOut)
	if err != nil {
		return domain.Draft{}, err
	}
	return domain.Draft{
		RoomID:     room.ID,
		Account:    in.Account,
		Name:       in.Name,
		Phone:      in.Phone,
		CampName:   camp.Name,
		RoomName:   room.Name,
		CheckIn:    in.CheckIn,
		CheckOut:   in.CheckOut,
		Nights:     nights,
		TotalPrice: room.Price * int64(nights),
	}, nil
}

// NewDraft resolves the room named in the form and builds a draft for it.
func (f *BookingFlow) NewDraft(ctx context.Context, in domain.DraftInput) (domain.Draft, error) {
	room, err := f.rooms.GetRoom(ctx, strings.TrimSpace(in.RoomID))
	if err != nil {
		return domain.Draft{}, err
	}
	camp, err := f.rooms.GetCamp(ctx, room.CampID)
	if err != nil {
		return domain.Draft{}, err
	}
	d, err := f.BuildDraft(camp, room, in)
	if err != nil {
		f.notifyInvalid(ctx, "", err)
		return domain.Draft{}, err
	}
	return d, nil
}

// Submit starts a payment attempt for d. Validation failures and a missing login never
// reach SUBMITTING; in the latter case the draft is held on the session and an
// *domain.AuthRequiredError is returned. The returned attempt resolves on its own
// goroutine and cannot be cancelled.
func (f *BookingFlow) Submit(ctx context.Context, sess SessionHandle, d domain.Draft, p domain.Payment) (*Attempt, error) {
	d = trimDraft(d)
	if err := f.checkDraft(d); err != nil {
		f.notifyInvalid(ctx, "", err)
		return nil, err
	}
	if err := f.checkPayment(p); err != nil {
		f.notifyInvalid(ctx, "", err)
		return nil, err
	}
	if err := f.checkCatalog(ctx, d); err != nil {
		f.notifyInvalid(ctx, "", err)
		return nil, err
	}

	id, ok := sess.Current()
	if !ok {
		sess.HoldDraft(d)
		f.notify(ctx, domain.Notification{
			Title:       "Please log in",
			Description: "Log in to complete your booking",
			Severity:    domain.SeverityDestructive,
		})
		return nil, &domain.AuthRequiredError{Draft: d}
	}

	key := id.ID + "|" + d.Fingerprint()
	f.mu.Lock()
	if _, busy := f.inflight[key]; busy {
		f.mu.Unlock()
		return nil, &domain.Error{Kind: domain.ErrSubmitInProgress, Message: "payment is already being processed"}
	}
	a := &Attempt{
		id:         f.newID(),
		identityID: id.ID,
		draft:      d,
		state:      domain.StateSubmitting,
		done:       make(chan struct{}),
	}
	f.inflight[key] = a
	f.attempts[a.id] = a
	f.mu.Unlock()

	go f.resolve(context.WithoutCancel(ctx), key, a, p)
	return a, nil
}

// Attempt returns a recent attempt by id.
func (f *BookingFlow) Attempt(id string) (*Attempt, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attempts[id]
	return a, ok
}

// resolve runs the charge and settles the attempt. Ledger, notifications and the in-flight
// slot are all updated before Done is closed.
func (f *BookingFlow) resolve(ctx context.Context, key string, a *Attempt, p domain.Payment) {
	err := f.gateway.Charge(ctx, domain.Charge{IdentityID: a.identityID, Amount: a.draft.TotalPrice, Payment: p})

	state, b := domain.StateFailed, domain.Booking{}
	if err == nil {
		d := a.draft
		state = domain.StateConfirmed
		b = domain.Booking{
			ID:          f.newID(),
			Account:     d.Account,
			Name:        d.Name,
			Phone:       d.Phone,
			CampName:    d.CampName,
			RoomName:    d.RoomName,
			CheckIn:     d.CheckIn,
			CheckOut:    d.CheckOut,
			Nights:      d.Nights,
			TotalPrice:  d.TotalPrice,
			Payment:     string(p.Type),
			ConfirmedAt: f.now().UTC(),
		}
		f.ledger.Append(a.identityID, b)
		f.notify(ctx, domain.Notification{
			Title:       "Payment successful",
			Description: "Your booking is confirmed",
			Severity:    domain.SeverityInfo,
			IdentityID:  a.identityID,
		})
	} else {
		f.notify(ctx, domain.Notification{
			Title:       "Payment failed",
			Description: "Check your payment details and retry",
			Severity:    domain.SeverityDestructive,
			IdentityID:  a.identityID,
		})
		err = domain.PaymentFailed("payment failed, check your payment details and retry")
	}

	f.mu.Lock()
	delete(f.inflight, key)
	f.mu.Unlock()
	a.finish(state, b, err)

	time.AfterFunc(attemptRetention, func() {
		f.mu.Lock()
		delete(f.attempts, a.id)
		f.mu.Unlock()
	})
}

// checkDraft re-validates a client-held draft before it is submitted.
func (f *BookingFlow) checkDraft(d domain.Draft) error {
	if err := f.validate.Struct(d); err != nil {
		return validationErr("all fields are required", err)
	}
	nights, err := Nights(d.CheckIn, d.CheckOut)
	if err != nil {
		return err
	}
	if nights != d.Nights {
		return domain.Validation("night count does not match dates",
			domain.FieldError{Field: "nights", Message: "must match checkIn and checkOut"})
	}
	return nil
}

// checkCatalog rebuilds d from the current room and camp and rejects any drift in names,
// availability or price.
func (f *BookingFlow) checkCatalog(ctx context.Context, d domain.Draft) error {
	room, err := f.rooms.GetRoom(ctx, d.RoomID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Validation("room does not exist",
			domain.FieldError{Field: "roomId", Message: "unknown room"})
	}
	if err != nil {
		return err
	}
	camp, err := f.rooms.GetCamp(ctx, room.CampID)
	if err != nil {
		return err
	}
	want, err := f.BuildDraft(camp, room, domain.DraftInput{
		RoomID:   d.RoomID,
		Account:  d.Account,
		Name:     d.Name,
		Phone:    d.Phone,
		CheckIn:  d.CheckIn,
		CheckOut: d.CheckOut,
	})
	if err != nil {
		return err
	}
	if want != d {
		var fields []domain.FieldError
		if want.CampName != d.CampName {
			fields = append(fields, domain.FieldError{Field: "campName", Message: "must be " + want.CampName})
		}
		if want.RoomName != d.RoomName {
			fields = append(fields, domain.FieldError{Field: "roomName", Message: "must be " + want.RoomName})
		}
		if want.TotalPrice != d.TotalPrice {
			fields = append(fields, domain.FieldError{Field: "totalPrice", Message: "must be " + strconv.FormatInt(want.TotalPrice, 10)})
		}
		return domain.Validation("booking does not match the current room", fields...)
	}
	return nil
}

func (f *BookingFlow) checkPayment(p domain.Payment) error {
	if err := f.validate.Struct(p); err != nil {
		return validationErr("payment method is required", err)
	}
	switch p.Type {
	case domain.PaymentTransfer:
		if strings.TrimSpace(p.Details) == "" {
			return domain.Validation("payment details are required",
				domain.FieldError{Field: "details", Message: "enter the transfer account"})
		}
	case domain.PaymentCard:
		if strings.TrimSpace(p.Details) == "" {
			return domain.Validation("payment details are required",
				domain.FieldError{Field: "details", Message: "enter the card number"})
		}
	}
	return nil
}

func (f *BookingFlow) notifyInvalid(ctx context.Context, identityID string, err error) {
	f.notify(ctx, domain.Notification{
		Title:       "Invalid booking information",
		Description: err.Error(),
		Severity:    domain.SeverityDestructive,
		IdentityID:  identityID,
	})
}

func (f *BookingFlow) notify(ctx context.Context, n domain.Notification) {
	if f.notifier == nil {
		return
	}
	n.At = f.now().UTC()
	f.notifier.Notify(ctx, n)
}

func trimDraft(d domain.Draft) domain.Draft {
	d.RoomID = strings.TrimSpace(d.RoomID)
	d.Account = strings.TrimSpace(d.Account)
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = strings.TrimSpace(d.Phone)
	d.CheckIn = strings.TrimSpace(d.CheckIn)
	d.CheckOut = strings.TrimSpace(d.CheckOut)
	return d
}

func trimInput(in domain.DraftInput) domain.DraftInput {
	in.RoomID = strings.TrimSpace(in.RoomID)
	in.Account = strings.TrimSpace(in.Account)
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.CheckIn = strings.TrimSpace(in.CheckIn)
	in.CheckOut = strings.TrimSpace(in.CheckOut)
	return in
}
