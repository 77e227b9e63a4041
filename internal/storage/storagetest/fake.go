// Package storagetest provides an in-memory S3 implementation of storage.API.
package storagetest

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Object is one stored version or delete marker.
type Object struct {
	VersionID    string
	Data         []byte
	ContentType  string
	ACL          string
	LastModified time.Time
	DeleteMarker bool
}

// Bucket is the fake's per-bucket state.
type Bucket struct {
	Region     string
	Created    time.Time
	Policy     *string
	PAB        bool
	Versioning types.BucketVersioningStatus
	Lifecycle  *types.BucketLifecycleConfiguration
	Website    *types.WebsiteConfiguration

	// objects holds each key's history, oldest first.
	objects map[string][]*Object
}

type upload struct {
	bucket, key string
	parts       map[int32][]byte
}

// FakeAPI is a concurrency-safe in-memory S3.
type FakeAPI struct {
	mu       sync.Mutex
	buckets  map[string]*Bucket
	uploads  map[string]*upload
	failures map[string]error
	seq      int

	// Now stamps new objects. Defaults to time.Now.
	Now func() time.Time
	// PageSize limits ListObjectsV2 results per page when set.
	PageSize int

	Calls   []string
	Aborted []string
}

// New returns an empty fake.
func New() *FakeAPI {
	return &FakeAPI{
		buckets:  map[string]*Bucket{},
		uploads:  map[string]*upload{},
		failures: map[string]error{},
		Now:      time.Now,
	}
}

// APIError builds the error shape the SDK returns for a failed call.
func APIError(code, message string) error {
	return &smithy.GenericAPIError{Code: code, Message: message}
}

// FailOn makes every call to op return err.
func (f *FakeAPI) FailOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = err
}

// FailOnKey makes op return err only for key.
func (f *FakeAPI) FailOnKey(op, key string, err error) {
	f.FailOn(op+":"+key, err)
}

// Count is the number of recorded calls to op.
func (f *FakeAPI) Count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == op {
			n++
		}
	}
	return n
}

// AddBucket creates a bucket directly.
func (f *FakeAPI) AddBucket(name, region string) *Bucket {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addBucket(name, region)
}

// EnableVersioning turns on versioning for bucket.
func (f *FakeAPI) EnableVersioning(bucket string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buckets[bucket].Versioning = types.BucketVersioningStatusEnabled
}

// Bucket returns the state of name, or nil.
func (f *FakeAPI) Bucket(name string) *Bucket {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buckets[name]
}

// AddVersion stores data as a new version of key modified at t.
func (f *FakeAPI) AddVersion(bucket, key string, data []byte, t time.Time) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.put(f.buckets[bucket], key, &Object{Data: data, LastModified: t})
}

// AddDeleteMarker stores a delete marker for key modified at t.
func (f *FakeAPI) AddDeleteMarker(bucket, key string, t time.Time) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.put(f.buckets[bucket], key, &Object{DeleteMarker: true, LastModified: t})
}

// Object returns the current version of key, or nil when absent or deleted.
func (f *FakeAPI) Object(bucket, key string) *Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.buckets[bucket]
	if b == nil {
		return nil
	}
	history := b.objects[key]
	if len(history) == 0 || history[len(history)-1].DeleteMarker {
		return nil
	}
	return history[len(history)-1]
}

// Versions returns every version and marker of key, oldest first.
func (f *FakeAPI) Versions(bucket, key string) []*Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Object(nil), f.buckets[bucket].objects[key]...)
}

// Keys lists the keys whose current version is not a delete marker.
func (f *FakeAPI) Keys(bucket string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.liveKeys(f.buckets[bucket])
}

func (f *FakeAPI) liveKeys(b *Bucket) []string {
	var keys []string
	for k, history := range b.objects {
		if len(history) > 0 && !history[len(history)-1].DeleteMarker {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (f *FakeAPI) addBucket(name, region string) *Bucket {
	b := &Bucket{
		Region:  region,
		Created: f.Now(),
		PAB:     true,
		objects: map[string][]*Object{},
	}
	f.buckets[name] = b
	return b
}

func (f *FakeAPI) put(b *Bucket, key string, obj *Object) string {
	if b.Versioning == types.BucketVersioningStatusEnabled {
		f.seq++
		obj.VersionID = "v" + strconv.Itoa(f.seq)
		b.objects[key] = append(b.objects[key], obj)
		return obj.VersionID
	}
	obj.VersionID = "null"
	b.objects[key] = []*Object{obj}
	return obj.VersionID
}

// call records op and returns an injected failure, if any.
func (f *FakeAPI) call(op, key string) error {
	f.Calls = append(f.Calls, op)
	if err := f.failures[op+":"+key]; err != nil && key != "" {
		return err
	}
	return f.failures[op]
}

func (f *FakeAPI) bucket(name *string) (*Bucket, error) {
	b := f.buckets[aws.ToString(name)]
	if b == nil {
		return nil, APIError("NoSuchBucket", "The specified bucket does not exist")
	}
	return b, nil
}

func (f *FakeAPI) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListBuckets", ""); err != nil {
		return nil, err
	}
	out := &s3.ListBucketsOutput{}
	for name, b := range f.buckets {
		out.Buckets = append(out.Buckets, types.Bucket{Name: aws.String(name), CreationDate: aws.Time(b.Created)})
	}
	return out, nil
}

func (f *FakeAPI) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("HeadBucket", ""); err != nil {
		return nil, err
	}
	if f.buckets[aws.ToString(params.Bucket)] == nil {
		return nil, &types.NotFound{Message: aws.String("Not Found")}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *FakeAPI) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateBucket", ""); err != nil {
		return nil, err
	}
	name := aws.ToString(params.Bucket)
	if f.buckets[name] != nil {
		return nil, APIError("BucketAlreadyOwnedByYou", "Your previous request to create the named bucket succeeded")
	}
	region := "us-east-1"
	if params.CreateBucketConfiguration != nil && params.CreateBucketConfiguration.LocationConstraint != "" {
		region = string(params.CreateBucketConfiguration.LocationConstraint)
	}
	f.addBucket(name, region)
	return &s3.CreateBucketOutput{Location: aws.String("/" + name)}, nil
}

func (f *FakeAPI) DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteBucket", ""); err != nil {
		return nil, err
	}
	b, err := f.bucket(params.Bucket)
	if err != nil {
		return nil, err
	}
	for _, history := range b.objects {
		if len(history) > 0 {
			return nil, APIError("BucketNotEmpty", "The bucket you tried to delete is not empty")
		}
	}
	delete(f.buckets, aws.ToString(params.Bucket))
	return &s3.DeleteBucketOutput{}, nil
}

func (f *FakeAPI) GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetBucketLocation", ""); err != nil {
		return nil, err
	}
	b, err := f.bucket(params.Bucket)
	if err != nil {
		return nil, err
	}
	out := &s3.GetBucketLocationOutput{}
	if b.Region != "us-east-1" {
		out.LocationConstraint = types.BucketLocationConstraint(b.Region)
	}
	return out, nil
}

func (f *FakeAPI) GetBucketPolicy(ctx context.Context, params *s3.GetBucketPolicyInput, optFns ...func(*s3.Options)) (*s3.GetBucketPolicyOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetBucketPolicy", ""); err != nil {
		return nil, err
	}
	b, err := f.bucket(params.Bucket)
	if err != nil {
		return nil, err
	}
	if b.Policy == nil {
		return nil, APIError("NoSuchBucketPolicy", "The bucket policy does not exist")
	}
	return &s3.GetBucketPolicyOutput{Policy: b.Policy}, nil
}

func (f *FakeAPI) PutBucketPolicy(ctx context.Context, params *s3.PutBucketPolicyInput, optFns ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("PutBucketPolicy", ""); err != nil {
		return nil, err
	}
	b, err := f.bucket(params.Bucket)
	if err != nil {
		return nil, err
	}
	if b.PAB {
		return nil, APIError("AccessDenied", "public policies are blocked by the BlockPublicPolicy block public access setting")
	}
	b.Policy = aws.String(aws.ToString(params.Policy))
	return &s3.PutBucketPolicyOutput{}, nil
}

func (f *FakeAPI) DeletePublicAccessBlock(ctx context.Context, params *s3.DeletePublicAccessBlockInput, optFns ...func(*s3.Options)) (*s3.DeletePublicAccessBlockOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeletePublicAccessBlock", ""); err != nil {
		return nil, err
	}
	b, err := f.bucket(params.Bucket)
	if err != nil {
		return nil, err
	}
	if !b.PAB {
		return nil, APIError("NoSuchPublicAccessBlockConfiguration", "The public access block configuration was not found")
	}
	b.PAB = false
	return &s3.DeletePublicAccessBlockOutput{}, nil
}

func (f *FakeAPI) PutBucketLifecycleConfiguration(ctx context.Context, params *s3.PutBucketLifecycleConfigurationInput, optFns ...func(*s3.Options)) (*s3.PutBucketLifecycleConfigurationOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("PutBucketLifecycleConfiguration", ""); err != nil {
		return nil, err
	}
	b, err := f.bucket(params.Bucket)
	if err != nil {
		return nil, err
	}
	b.Lifecycle = params.LifecycleConfiguration
	return &s3.PutBucketLifecycleConfigurationOutput{}, nil
}

func (f *FakeAPI) GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetBucketVersioning", ""); err != nil {
		return nil, err
	}
	b, err := f.bucket(params.Bucket)
	if err != nil {
		return nil, err
	}
	return &s3.GetBucketVersioningOutput{Status: b.Versioning}, nil
}

func (f *FakeAPI) PutBucketWebsite(ctx context.Context, params *s3.PutBucketWebsiteInput, optFns ...func(*s3.Options)) (*s3.PutBucketWebsiteOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("PutBucketWebsite", ""); err != nil {
		return nil, err
	}
	b, err := f.bucket(params.Bucket)
	if err != nil {
		return nil, err
	}
	b.Website = params.WebsiteConfiguration
	return &s3.PutBucketWebsiteOutput{}, nil
}

func (f *FakeAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	var data []byte
	if params.Body != nil {
		var err error
		if data, err = io.ReadAll(params.Body); err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(params.Key)
	if err := f.call("PutObject", key); err != nil {
		return nil, err
	}
	b, err := f.bucket(params.Bucket)
	if err != nil {
		return nil, err
	}
	id := f.put(b, key, &Object{
		Data:         data,
		ContentType:  aws.ToString(params.ContentType),
		ACL:          string(params.ACL),
		LastModified: f.Now(),
	})
	return &s3.PutObjectOutput{VersionId: aws.String(id), ETag: aws.String(fmt.Sprintf("%q", id))}, nil
}

func (f *FakeAPI) PutObjectAcl(ctx context.Context, params *s3.PutObjectAclInput, optFns ...func(*s3.Options)) (*s3.PutObjectAclOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(params.Key)
	if err := f.call("PutObjectAcl", key); err != nil {
		return nil, err
	}
	b, err := f.bucket(params.Bucket)
	if err != nil {
		return nil, err
	}
	history := b.objects[key]
	if len(history) == 0 || history[len(history)-1].DeleteMarker {
		return nil, APIError("NoSuchKey", "The specified key does not exist.")
	}
	history[len(history)-1].ACL = string(params.ACL)
	return &s3.PutObjectAclOutput{}, nil
}

func (f *FakeAPI) CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(params.Key)
	if err := f.call("CopyObject", key); err != nil {
		return nil, err
	}
	dst, err := f.bucket(params.Bucket)
	if err != nil {
		return nil, err
	}

	srcBucket, srcKey, versionID, err := parseCopySource(aws.ToString(params.CopySource))
	if err != nil {
		return nil, APIError("InvalidArgument", err.Error())
	}
	src := f.buckets[srcBucket]
	if src == nil {
		return nil, APIError("NoSuchBucket", "The specified bucket does not exist")
	}

	var source *Object
	history := src.objects[srcKey]
	if versionID == "" {
		if len(history) > 0 && !history[len(history)-1].DeleteMarker {
			source = history[len(history)-1]
		}
	} else {
		for _, o := range history {
			if o.VersionID == versionID && !o.DeleteMarker {
				source = o
			}
		}
	}
	if source == nil {
		return nil, APIError("NoSuchKey", "The specified key does not exist.")
	}

	id := f.put(dst, key, &Object{
		Data:         append([]byte(nil), source.Data...),
		ContentType:  source.ContentType,
		LastModified: f.Now(),
	})
	return &s3.CopyObjectOutput{VersionId: aws.String(id)}, nil
}

func parseCopySource(src string) (bucket, key, versionID string, err error) {
	path, query, _ := strings.Cut(src, "?")
	bucket, escapedKey, ok := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if !ok {
		return "", "", "", fmt.Errorf("invalid copy source %q", src)
	}
	if key, err = url.PathUnescape(escapedKey); err != nil {
		return "", "", "", err
	}
	if query != "" {
		values, err := url.ParseQuery(query)
		if err != nil {
			return "", "", "", err
		}
		versionID = values.Get("versionId")
	}
	return bucket, key, versionID, nil
}

func (f *FakeAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(params.Key)
	if err := f.call("DeleteObject", key); err != nil {
		return nil, err
	}
	b, err := f.bucket(params.Bucket)
	if err != nil {
		return nil, err
	}
	f.deleteObject(b, key, aws.ToString(params.VersionId))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *FakeAPI) deleteObject(b *Bucket, key, versionID string) bool {
	history := b.objects[key]
	if versionID != "" {
		for i, o := range history {
			if o.VersionID == versionID {
				b.objects[key] = append(history[:i:i], history[i+1:]...)
				if len(b.objects[key]) == 0 {
					delete(b.objects, key)
				}
				return true
			}
		}
		return false
	}
	if b.Versioning == types.BucketVersioningStatusEnabled {
		f.put(b, key, &Object{DeleteMarker: true, LastModified: f.Now()})
		return true
	}
	delete(b.objects, key)
	return true
}

func (f *FakeAPI) DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteObjects", ""); err != nil {
		return nil, err
	}
	b, err := f.bucket(params.Bucket)
	if err != nil {
		return nil, err
	}
	if len(params.Delete.Objects) > 1000 {
		return nil, APIError("MalformedXML", "too many objects in DeleteObjects")
	}

	out := &s3.DeleteObjectsOutput{}
	for _, id := range params.Delete.Objects {
		key := aws.ToString(id.Key)
		if injected := f.failures["DeleteObjects:"+key]; injected != nil {
			out.Errors = append(out.Errors, types.Error{
				Key:       id.Key,
				VersionId: id.VersionId,
				Code:      aws.String("AccessDenied"),
				Message:   aws.String(injected.Error()),
			})
			continue
		}
		f.deleteObject(b, key, aws.ToString(id.VersionId))
		out.Deleted = append(out.Deleted, types.DeletedObject{Key: id.Key, VersionId: id.VersionId})
	}
	return out, nil
}

func (f *FakeAPI) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListObjectsV2", ""); err != nil {
		return nil, err
	}
	b, err := f.bucket(params.Bucket)
	if err != nil {
		return nil, err
	}

	prefix := aws.ToString(params.Prefix)
	delimiter := aws.ToString(params.Delimiter)
	var contents []types.Object
	seenPrefixes := map[string]bool{}
	var commonPrefixes []types.CommonPrefix

	for _, key := range f.liveKeys(b) {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if delimiter != "" {
			rest := strings.TrimPrefix(key, prefix)
			if i := strings.Index(rest, delimiter); i >= 0 {
				cp := prefix + rest[:i+len(delimiter)]
				if !seenPrefixes[cp] {
					seenPrefixes[cp] = true
					commonPrefixes = append(commonPrefixes, types.CommonPrefix{Prefix: aws.String(cp)})
				}
				continue
			}
		}
		obj := b.objects[key][len(b.objects[key])-1]
		contents = append(contents, types.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(obj.Data))),
			LastModified: aws.Time(obj.LastModified),
		})
	}

	// Tokens are the last key returned, so listings stay stable while objects move.
	start := 0
	if token := aws.ToString(params.ContinuationToken); token != "" {
		start = sort.Search(len(contents), func(i int) bool { return aws.ToString(contents[i].Key) > token })
	}
	end := len(contents)
	if f.PageSize > 0 && start+f.PageSize < end {
		end = start + f.PageSize
	}

	out := &s3.ListObjectsV2Output{
		Contents:       contents[start:end],
		CommonPrefixes: commonPrefixes,
		KeyCount:       aws.Int32(int32(end - start)),
		IsTruncated:    aws.Bool(end < len(contents)),
	}
	if end < len(contents) {
		out.NextContinuationToken = contents[end-1].Key
	}
	return out, nil
}

func (f *FakeAPI) ListObjectVersions(ctx context.Context, params *s3.ListObjectVersionsInput, optFns ...func(*s3.Options)) (*s3.ListObjectVersionsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := aws.ToString(params.Prefix)
	if err := f.call("ListObjectVersions", prefix); err != nil {
		return nil, err
	}
	b, err := f.bucket(params.Bucket)
	if err != nil {
		return nil, err
	}

	out := &s3.ListObjectVersionsOutput{IsTruncated: aws.Bool(false)}
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		history := b.objects[key]
		for i := len(history) - 1; i >= 0; i-- {
			o := history[i]
			latest := i == len(history)-1
			if o.DeleteMarker {
				out.DeleteMarkers = append(out.DeleteMarkers, types.DeleteMarkerEntry{
					Key:          aws.String(key),
					VersionId:    aws.String(o.VersionID),
					IsLatest:     aws.Bool(latest),
					LastModified: aws.Time(o.LastModified),
				})
				continue
			}
			out.Versions = append(out.Versions, types.ObjectVersion{
				Key:          aws.String(key),
				VersionId:    aws.String(o.VersionID),
				IsLatest:     aws.Bool(latest),
				LastModified: aws.Time(o.LastModified),
				Size:         aws.Int64(int64(len(o.Data))),
			})
		}
	}
	return out, nil
}

func (f *FakeAPI) CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(params.Key)
	if err := f.call("CreateMultipartUpload", key); err != nil {
		return nil, err
	}
	if _, err := f.bucket(params.Bucket); err != nil {
		return nil, err
	}
	f.seq++
	id := "upload-" + strconv.Itoa(f.seq)
	f.uploads[id] = &upload{bucket: aws.ToString(params.Bucket), key: key, parts: map[int32][]byte{}}
	return &s3.CreateMultipartUploadOutput{UploadId: aws.String(id), Bucket: params.Bucket, Key: params.Key}, nil
}

func (f *FakeAPI) UploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	var data []byte
	if params.Body != nil {
		var err error
		if data, err = io.ReadAll(params.Body); err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	part := aws.ToInt32(params.PartNumber)
	if err := f.call("UploadPart", strconv.Itoa(int(part))); err != nil {
		return nil, err
	}
	u := f.uploads[aws.ToString(params.UploadId)]
	if u == nil {
		return nil, APIError("NoSuchUpload", "The specified upload does not exist")
	}
	u.parts[part] = data
	return &s3.UploadPartOutput{ETag: aws.String(fmt.Sprintf("\"etag-%d\"", part))}, nil
}

func (f *FakeAPI) CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CompleteMultipartUpload", aws.ToString(params.Key)); err != nil {
		return nil, err
	}
	id := aws.ToString(params.UploadId)
	u := f.uploads[id]
	if u == nil {
		return nil, APIError("NoSuchUpload", "The specified upload does not exist")
	}

	var data []byte
	if params.MultipartUpload != nil {
		for _, p := range params.MultipartUpload.Parts {
			chunk, ok := u.parts[aws.ToInt32(p.PartNumber)]
			if !ok {
				return nil, APIError("InvalidPart", "One or more of the specified parts could not be found")
			}
			data = append(data, chunk...)
		}
	}
	delete(f.uploads, id)

	versionID := f.put(f.buckets[u.bucket], u.key, &Object{Data: data, LastModified: f.Now()})
	return &s3.CompleteMultipartUploadOutput{
		Bucket:    aws.String(u.bucket),
		Key:       aws.String(u.key),
		VersionId: aws.String(versionID),
		Location:  aws.String("https://" + u.bucket + ".s3.amazonaws.com/" + u.key),
	}, nil
}

func (f *FakeAPI) AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("AbortMultipartUpload", ""); err != nil {
		return nil, err
	}
	id := aws.ToString(params.UploadId)
	delete(f.uploads, id)
	f.Aborted = append(f.Aborted, id)
	return &s3.AbortMultipartUploadOutput{}, nil
}

// PendingUploads is the number of multipart uploads neither completed nor aborted.
func (f *FakeAPI) PendingUploads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}
