// Package lambda contains AWS::Lambda resource types.
package lambda
