package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryAttempts(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want uint
	}{
		{name: "отрицательное значение", in: -3, want: 1},
		{name: "ноль", in: 0, want: 1},
		{name: "одна попытка", in: 1, want: 1},
		{name: "заданное значение", in: 5, want: 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, deliveryAttempts(tc.in))
		})
	}
}
