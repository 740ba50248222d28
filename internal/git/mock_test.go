package git

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"
)

// MockCommander is a test mock for the Commander interface.
// Expectations are keyed on the working directory and the space-joined
// argument list, which keeps call setup readable.
type MockCommander struct {
	mock.Mock
}

// Ensure MockCommander implements Commander at compile time.
var _ Commander = (*MockCommander)(nil)

func (m *MockCommander) Run(ctx context.Context, workDir string, args ...string) (stdout, stderr []byte, err error) {
	called := m.Called(workDir, strings.Join(args, " "))
	return called.Get(0).([]byte), called.Get(1).([]byte), called.Error(2)
}

func (m *MockCommander) RunQuiet(ctx context.Context, workDir string, args ...string) error {
	called := m.Called(workDir, strings.Join(args, " "))
	return called.Error(0)
}

// expectRun is a shorthand for a successful Run expectation.
func (m *MockCommander) expectRun(workDir, args, stdout string) *mock.Call {
	return m.On("Run", workDir, args).Return([]byte(stdout), []byte(nil), nil)
}

// expectRunError is a shorthand for a failing Run expectation.
func (m *MockCommander) expectRunError(workDir, args string, err error) *mock.Call {
	return m.On("Run", workDir, args).Return([]byte(nil), []byte(nil), err)
}
