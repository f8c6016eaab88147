package service

import "workforce/internal/domain"

// Classifier is the part of the rule engine the validators depend on.
// *classifier.Engine implements it.
type Classifier interface {
	ClassifyPosition(p domain.Position) domain.Classification
	ValidateClassification(p domain.Position) domain.ClassificationCheck
	KnownDepartments() []string
}
