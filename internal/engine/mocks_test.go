package engine

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/driquet/git-template/internal/history"
	"github.com/driquet/git-template/internal/ui"
)

type MockGit struct {
	mock.Mock
}

func (m *MockGit) IsInsideWorkTree(ctx context.Context) bool {
	return m.Called().Bool(0)
}

func (m *MockGit) CreateBranch(ctx context.Context, name string) error {
	return m.Called(name).Error(0)
}

func (m *MockGit) StageAdd(ctx context.Context, path string) error {
	return m.Called(path).Error(0)
}

type MockDatabase struct {
	mock.Mock
}

func (m *MockDatabase) RecordInstantiation(entry *history.Entry) error {
	return m.Called(entry).Error(0)
}

func (m *MockDatabase) RecentInstantiations(limit int) ([]history.Entry, error) {
	args := m.Called(limit)
	entries, _ := args.Get(0).([]history.Entry)
	return entries, args.Error(1)
}

func (m *MockDatabase) TemplateUsage() (map[string]int, error) {
	args := m.Called()
	usage, _ := args.Get(0).(map[string]int)
	return usage, args.Error(1)
}

func (m *MockDatabase) Close() error {
	return m.Called().Error(0)
}

type MockUI struct {
	mock.Mock
}

func (m *MockUI) SelectTemplate(choices []ui.Choice) (string, error) {
	args := m.Called(choices)
	return args.String(0), args.Error(1)
}

func (m *MockUI) Prompt(prompt string) (string, error) {
	args := m.Called(prompt)
	return args.String(0), args.Error(1)
}
