package model

import "time"

// SampleTestCaseLimit is how many test cases a public question fetch
// exposes; the rest stay hidden for grading.
const SampleTestCaseLimit = 2

// TestCase is a single input/output pair attached to a question. Cases
// beyond the first SampleTestCaseLimit are treated as hidden.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

// Question represents a coding problem.
type Question struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Title        string     `json:"title" gorm:"size:255;not null;index"`
	Description  string     `json:"description" gorm:"type:text"`
	Difficulty   string     `json:"difficulty" gorm:"size:50;index"`
	InputFormat  string     `json:"input_format" gorm:"type:text"`
	OutputFormat string     `json:"output_format" gorm:"type:text"`
	TestCases    []TestCase `json:"test_cases" gorm:"serializer:json;type:text"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
