package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/abcsmc/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *mockClient) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *mockClient) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func (m *mockClient) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.ListObjectsV2Output), args.Error(1)
}

func TestStore_Put(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "test-bucket", "runs")

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, ok := in.Body.(*bytes.Reader)
		return ok && *in.Bucket == "test-bucket" && *in.Key == "runs/gen-000001.snap" &&
			body.Len() == 7 && *in.ContentLength == 7
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	require.NoError(t, store.Put(context.Background(), "gen-000001.snap", []byte("payload")))
	client.AssertExpectations(t)
}

func TestStore_Get(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "test-bucket", "runs")

	t.Run("Success", func(t *testing.T) {
		client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
			return *in.Key == "runs/found"
		})).Return(&s3.GetObjectOutput{
			Body: io.NopCloser(strings.NewReader("hello")),
		}, nil).Once()

		data, err := store.Get(context.Background(), "found")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)
	})

	t.Run("NoSuchKey", func(t *testing.T) {
		client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
			return *in.Key == "runs/missing"
		})).Return(nil, &types.NoSuchKey{}).Once()

		_, err := store.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("OtherError", func(t *testing.T) {
		boom := errors.New("boom")
		client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
			return *in.Key == "runs/broken"
		})).Return(nil, boom).Once()

		_, err := store.Get(context.Background(), "broken")
		assert.ErrorIs(t, err, boom)
	})

	client.AssertExpectations(t)
}

func TestStore_Delete(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "test-bucket", "prefix")

	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Bucket == "test-bucket" && *in.Key == "prefix/del"
	})).Return(&s3.DeleteObjectOutput{}, nil).Once()
	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Key == "prefix/gone"
	})).Return(nil, &types.NotFound{}).Once()

	assert.NoError(t, store.Delete(context.Background(), "del"))
	assert.NoError(t, store.Delete(context.Background(), "gone"))
	client.AssertExpectations(t)
}

func TestStore_List(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "test-bucket", "prefix/")

	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return *in.Bucket == "test-bucket" && *in.Prefix == "prefix/gen-"
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("prefix/gen-000002.snap")},
			{Key: aws.String("prefix/gen-000000.snap")},
		},
	}, nil).Once()

	keys, err := store.List(context.Background(), "gen-")
	require.NoError(t, err)
	assert.Equal(t, []string{"gen-000000.snap", "gen-000002.snap"}, keys)
	client.AssertExpectations(t)
}

func TestStore_List_Pagination(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "test-bucket", "")

	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return in.ContinuationToken == nil
	})).Return(&s3.ListObjectsV2Output{
		Contents:              []types.Object{{Key: aws.String("b")}},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("page2"),
	}, nil).Once()
	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.ContinuationToken) == "page2"
	})).Return(&s3.ListObjectsV2Output{
		Contents:    []types.Object{{Key: aws.String("a")}},
		IsTruncated: aws.Bool(false),
	}, nil).Once()

	keys, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
	client.AssertExpectations(t)
}
