// Copyright 2026 Medisearch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a Record failed validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrMissingID indicates a Record has no identifier.
	ErrMissingID = errors.New("record id is required")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("record text cannot be empty")

	// ErrInvalidSchema indicates a Schema failed validation.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrEmptyFieldName indicates a schema field with an empty name.
	ErrEmptyFieldName = errors.New("field name cannot be empty")

	// ErrReservedFieldName indicates a schema field with a reserved name.
	ErrReservedFieldName = errors.New("field name is reserved")

	// ErrInvalidFieldType indicates an unknown schema field type.
	ErrInvalidFieldType = errors.New("invalid field type")

	// ErrInvalidFilter indicates a filter expression failed validation.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrUnknownField indicates a filter predicate on a field the schema does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrPredicateType indicates a filter operator applied to an incompatible field type.
	ErrPredicateType = errors.New("operator not supported for field type")

	// ErrEmptyPredicateValue indicates a filter predicate with an empty comparison value.
	ErrEmptyPredicateValue = errors.New("predicate value cannot be empty")
)
