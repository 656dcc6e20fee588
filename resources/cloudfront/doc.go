// Package cloudfront contains AWS::CloudFront resource types.
//
// Example usage:
//
//	oac := &cloudfront.OriginAccessControl{
//		OriginAccessControlConfig: &cloudfront.OriginAccessControl_OriginAccessControlConfig{
//			Name:                          "siteOAC",
//			OriginAccessControlOriginType: cloudfront.OriginTypeS3,
//			SigningBehavior:               cloudfront.SigningBehaviorAlways,
//			SigningProtocol:               cloudfront.SigningProtocolSigv4,
//		},
//	}
//	st.Add("OriginAccessControl", oac)
//
//	origin := cloudfront.Distribution_Origin{
//		Id:                    "BucketOrigin",
//		DomainName:            bucket.RegionalDomainName,
//		OriginAccessControlId: oac.Id,
//		S3OriginConfig:        cloudfront.WithoutOriginAccessIdentity(),
//	}
package cloudfront
