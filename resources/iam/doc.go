// Package iam contains AWS::IAM resource types.
package iam
