// Package s3 contains AWS::S3 resource types.
//
// Example usage:
//
//	bucket := &s3.Bucket{
//		BucketName:                     Sub{String: "site-${AWS::AccountId}"},
//		AccessControl:                  s3.AccessControlPrivate,
//		PublicAccessBlockConfiguration: s3.BlockAll(),
//	}
//	st.Add("Bucket", bucket)
//
//	policy := &s3.BucketPolicy{
//		Bucket:         bucket,
//		PolicyDocument: NewPolicyDocument(stmt),
//	}
package s3
