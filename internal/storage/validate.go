package storage

import (
	"path"

	apperrors "github.com/ghulammurtaza27/debugmaster/internal/errors"
	"github.com/ghulammurtaza27/debugmaster/internal/models"
)

func validateNode(node *models.CodeNode) error {
	if node == nil {
		return apperrors.ValidationError("node is nil")
	}
	if node.Path == "" || node.Name == "" {
		return apperrors.ValidationError("node path and name are required")
	}
	switch node.Type {
	case models.NodeTypeFile, models.NodeTypeFunction, models.NodeTypeClass:
		return nil
	default:
		return apperrors.ValidationErrorf("unknown node type %q", node.Type)
	}
}

func pathBase(p string) string {
	return path.Base(p)
}
