package validator

import (
	"fmt"

	"github.com/futig/rag-playground/internal/entity"
)

var allowedRoles = map[string]bool{
	entity.RoleSystem:    true,
	entity.RoleUser:      true,
	entity.RoleAssistant: true,
}

// ValidateChat validates a chat request
func (v *Validator) ValidateChat(req *entity.ChatRequest) error {
	if len(req.Messages) == 0 {
		return entity.ErrEmptyMessages
	}

	for i, msg := range req.Messages {
		if !allowedRoles[msg.Role] {
			return fmt.Errorf("%w: messages[%d].role %q", entity.ErrInvalidParameter, i, msg.Role)
		}
	}

	if req.Temperature != nil && (*req.Temperature < 0 || *req.Temperature > 2) {
		return fmt.Errorf("%w: temperature must be between 0 and 2", entity.ErrInvalidParameter)
	}

	if req.MaxTokens != nil && *req.MaxTokens < 1 {
		return fmt.Errorf("%w: maxTokens must be positive", entity.ErrInvalidParameter)
	}

	return nil
}
