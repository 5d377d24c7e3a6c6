package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/apperror"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
)

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names so messages match what the client sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *HotelService) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.New(apperror.CodeValidation, "invalid request", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperror.New(apperror.CodeValidation, strings.Join(msgs, "; "), nil)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "email":
		return fmt.Sprintf("%s is not a valid email address", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// parseStay parses and orders a stay's dates.
func parseStay(checkIn, checkOut string) (model.Interval, error) {
	start, err := model.ParseDate(checkIn)
	if err != nil {
		return model.Interval{}, apperror.New(apperror.CodeValidation, "check_in: "+err.Error(), nil)
	}
	end, err := model.ParseDate(checkOut)
	if err != nil {
		return model.Interval{}, apperror.New(apperror.CodeValidation, "check_out: "+err.Error(), nil)
	}

	stay := model.Interval{Start: start, End: end}
	if !stay.Valid() {
		return model.Interval{}, apperror.Newf(apperror.CodeInvalidDateRange,
			"check-in %s must be before check-out %s", checkIn, checkOut)
	}
	return stay, nil
}

func validRoomNumber(number int) error {
	if number <= 0 {
		return apperror.Newf(apperror.CodeValidation, "room number must be positive, got %d", number)
	}
	return nil
}

func normalizeCheckIn(req model.CheckInRequest) model.CheckInRequest {
	req.GuestID = strings.TrimSpace(req.GuestID)
	req.CheckIn = strings.TrimSpace(req.CheckIn)
	req.CheckOut = strings.TrimSpace(req.CheckOut)
	req.GuestName = strings.TrimSpace(req.GuestName)
	req.GuestEmail = strings.ToLower(strings.TrimSpace(req.GuestEmail))
	req.GuestPhone = strings.TrimSpace(req.GuestPhone)
	return req
}
