package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
	"github.com/maxkimambo/manage/internal/storage/storagetest"
)

type mockAPI struct {
	API
	mock.Mock
}

func (m *mockAPI) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.ListBucketsOutput)
	return out, args.Error(1)
}

func TestVerifyAccess(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCat  taskerrors.ErrorCategory
		wantNone bool
	}{
		{name: "ok", wantNone: true},
		{name: "bad token", err: storagetest.APIError("InvalidClientTokenId", "bad"), wantCat: taskerrors.ErrorCategoryConfiguration},
		{name: "bad signature", err: storagetest.APIError("SignatureDoesNotMatch", "bad"), wantCat: taskerrors.ErrorCategoryConfiguration},
		{name: "denied", err: storagetest.APIError("AccessDenied", "no"), wantCat: taskerrors.ErrorCategoryPermission},
		{name: "other", err: fmt.Errorf("dial tcp: timeout"), wantCat: taskerrors.ErrorCategoryS3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockAPI{}
			api.On("ListBuckets", mock.Anything, mock.Anything).Return(&s3.ListBucketsOutput{}, tt.err).Once()

			err := NewClientWithAPI(api, "us-west-2").VerifyAccess(context.Background())
			api.AssertExpectations(t)

			if tt.wantNone {
				assert.NoError(t, err)
				return
			}
			var taskErr *taskerrors.TaskError
			require.ErrorAs(t, err, &taskErr)
			assert.Equal(t, tt.wantCat, taskErr.Category)
		})
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "NoSuchBucket", ErrorCode(fmt.Errorf("wrapped: %w", storagetest.APIError("NoSuchBucket", "x"))))
	assert.Equal(t, "", ErrorCode(fmt.Errorf("plain")))
	assert.Equal(t, 0, StatusCode(fmt.Errorf("plain")))
}
