package validation

import "checkin/entity"

const (
	msgGranted     = "Valid invitation - entry granted"
	msgAlreadyUsed = "Invitation has already been used"
	msgInvalid     = "Invalid code"
)

// Result is one of Granted, AlreadyUsed or Invalid.
type Result interface {
	Valid() bool
	Message() string
	Severity() entity.Severity
	result()
}

// Granted: the invitation was active and is now used.
type Granted struct {
	Invitation entity.Invitation
	Graduate   *entity.Graduate
}

// AlreadyUsed: the invitation had been redeemed before; nothing changed.
type AlreadyUsed struct {
	Invitation entity.Invitation
	Graduate   *entity.Graduate
}

// Invalid: no invitation carries the scanned code.
type Invalid struct {
	Code string
}

func (Granted) Valid() bool { return true }

func (Granted) Message() string { return msgGranted }

func (Granted) Severity() entity.Severity { return entity.SeveritySuccess }

func (Granted) result() {}

func (AlreadyUsed) Valid() bool { return false }

func (AlreadyUsed) Message() string { return msgAlreadyUsed }

func (AlreadyUsed) Severity() entity.Severity { return entity.SeverityWarning }

func (AlreadyUsed) result() {}

func (Invalid) Valid() bool { return false }

func (Invalid) Message() string { return msgInvalid }

func (Invalid) Severity() entity.Severity { return entity.SeverityError }

func (Invalid) result() {}

// View flattens a result into the shape shown at the entrance
func View(r Result) entity.ValidationView {
	view := entity.ValidationView{
		Valid:   r.Valid(),
		Message: r.Message(),
		Type:    r.Severity(),
	}
	switch v := r.(type) {
	case Granted:
		inv := v.Invitation
		view.Invitation = &inv
		view.Graduate = v.Graduate
	case AlreadyUsed:
		inv := v.Invitation
		view.Invitation = &inv
		view.Graduate = v.Graduate
	case Invalid:
	}
	return view
}
