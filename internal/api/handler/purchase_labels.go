package handler

import (
	"errors"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

func strategyLabel(course *domain.Course) string {
	if course.IsFree() {
		return "free"
	}
	return "balance"
}

func purchaseFailureLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyPurchased):
		return "already_purchased"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrPurchaseInProgress):
		return "in_progress"
	}
	return "error"
}
