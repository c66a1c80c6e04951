package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validCustomer() Customer {
	return Customer{
		FirstName:     "Matti",
		LastName:      "Meikäläinen",
		Email:         "matti@example.com",
		Phone:         "1234567890",
		StreetAddress: "Esimerkkikatu 1",
		Postcode:      "00100",
		City:          "Helsinki",
	}
}

func TestCustomerValidateAcceptsCompleteRecord(t *testing.T) {
	require.NoError(t, validCustomer().Validate())
}

func TestCustomerValidateRejectsMissingFields(t *testing.T) {
	c := validCustomer()
	c.Email = ""
	c.City = "  "

	err := c.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	require.ElementsMatch(t, []string{"email", "city"}, fields)
}

func TestCustomerValidateRejectsBadEmail(t *testing.T) {
	c := validCustomer()
	c.Email = "not-an-address"

	err := c.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "email", verr.Fields[0].Field)
}

func TestTrainingDraftValidate(t *testing.T) {
	valid := TrainingDraft{
		Date:       time.Date(2024, 11, 20, 10, 0, 0, 0, time.UTC),
		Duration:   60,
		Activity:   "Jogging",
		CustomerID: "7",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*TrainingDraft)
		field  string
	}{
		{name: "no customer selected", mutate: func(d *TrainingDraft) { d.CustomerID = "" }, field: "customer"},
		{name: "no activity selected", mutate: func(d *TrainingDraft) { d.Activity = " " }, field: "activity"},
		{name: "zero duration", mutate: func(d *TrainingDraft) { d.Duration = 0 }, field: "duration"},
		{name: "negative duration", mutate: func(d *TrainingDraft) { d.Duration = -5 }, field: "duration"},
		{name: "zero date", mutate: func(d *TrainingDraft) { d.Date = time.Time{} }, field: "date"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			draft := valid
			tc.mutate(&draft)

			err := draft.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tc.field, verr.Fields[0].Field)
		})
	}
}
