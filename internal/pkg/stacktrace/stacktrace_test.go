package stacktrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stack string
		want  []string
	}{
		{
			name:  "empty",
			stack: "",
			want:  []string{},
		},
		{
			name: "keeps internal frames only",
			stack: "goroutine 7 [running]:\n" +
				"runtime/debug.Stack()\n" +
				"\t/usr/local/go/src/runtime/debug/stack.go:26 +0x5e\n" +
				"github.com/shandysiswandi/duoweb/internal/twofactor/usecase.(*Usecase).VerifyResponse(...)\n" +
				"\t/src/duoweb/internal/twofactor/usecase/verify_response.go:42 +0x1d\n" +
				"github.com/shandysiswandi/duoweb/internal/pkg/router.(*Router).POST.func1()\n" +
				"\t/src/duoweb/internal/pkg/router/router.go:88\n",
			want: []string{
				"internal/twofactor/usecase/verify_response.go:42",
				"internal/pkg/router/router.go:88",
			},
		},
		{
			name:  "function lines are not locations",
			stack: "github.com/shandysiswandi/duoweb/internal/app.New()\n",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, InternalPaths([]byte(tt.stack)))
		})
	}
}
