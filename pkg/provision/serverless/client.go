/*
Copyright 2025 The Envlane Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package serverless provisions the stack's AWS Lambda function: its IAM
// role and policies, the function itself, and the optional function URL.
// Each Ensure method is create-or-update against the live account.
package serverless

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsiam "github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"k8s.io/klog/v2"

	"github.com/envlane/envlane/api/v1alpha1"
)

// BasicExecutionPolicyARN is attached to every function role so logs land
// in CloudWatch.
const BasicExecutionPolicyARN = "arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"

// sqsPolicyName is the inline policy name used for queue access.
const sqsPolicyName = "queue-consume"

// IAMAPI is the slice of the IAM service this package calls.
type IAMAPI interface {
	GetRole(ctx context.Context, params *awsiam.GetRoleInput, optFns ...func(*awsiam.Options)) (*awsiam.GetRoleOutput, error)
	CreateRole(ctx context.Context, params *awsiam.CreateRoleInput, optFns ...func(*awsiam.Options)) (*awsiam.CreateRoleOutput, error)
	AttachRolePolicy(ctx context.Context, params *awsiam.AttachRolePolicyInput, optFns ...func(*awsiam.Options)) (*awsiam.AttachRolePolicyOutput, error)
	PutRolePolicy(ctx context.Context, params *awsiam.PutRolePolicyInput, optFns ...func(*awsiam.Options)) (*awsiam.PutRolePolicyOutput, error)
}

// LambdaAPI is the slice of the Lambda service this package calls.
type LambdaAPI interface {
	GetFunction(ctx context.Context, params *awslambda.GetFunctionInput, optFns ...func(*awslambda.Options)) (*awslambda.GetFunctionOutput, error)
	CreateFunction(ctx context.Context, params *awslambda.CreateFunctionInput, optFns ...func(*awslambda.Options)) (*awslambda.CreateFunctionOutput, error)
	UpdateFunctionCode(ctx context.Context, params *awslambda.UpdateFunctionCodeInput, optFns ...func(*awslambda.Options)) (*awslambda.UpdateFunctionCodeOutput, error)
	UpdateFunctionConfiguration(ctx context.Context, params *awslambda.UpdateFunctionConfigurationInput, optFns ...func(*awslambda.Options)) (*awslambda.UpdateFunctionConfigurationOutput, error)
	CreateFunctionUrlConfig(ctx context.Context, params *awslambda.CreateFunctionUrlConfigInput, optFns ...func(*awslambda.Options)) (*awslambda.CreateFunctionUrlConfigOutput, error)
	GetFunctionUrlConfig(ctx context.Context, params *awslambda.GetFunctionUrlConfigInput, optFns ...func(*awslambda.Options)) (*awslambda.GetFunctionUrlConfigOutput, error)
	AddPermission(ctx context.Context, params *awslambda.AddPermissionInput, optFns ...func(*awslambda.Options)) (*awslambda.AddPermissionOutput, error)
}

// Client bundles the two AWS service clients behind narrow interfaces so
// tests can substitute them.
type Client struct {
	iam    IAMAPI
	lambda LambdaAPI
}

// NewClient builds a Client on explicit API implementations.
func NewClient(iamAPI IAMAPI, lambdaAPI LambdaAPI) *Client {
	return &Client{iam: iamAPI, lambda: lambdaAPI}
}

// NewFromConfig builds a Client on real AWS service clients.
func NewFromConfig(cfg aws.Config) *Client {
	return &Client{
		iam:    awsiam.NewFromConfig(cfg),
		lambda: awslambda.NewFromConfig(cfg),
	}
}

// Provision runs the full serverless flow for the stack: role, policies,
// function, then the optional URL. code is the zip payload read by the
// caller. Returns the function ARN.
func (c *Client) Provision(ctx context.Context, stack *v1alpha1.Stack, code []byte) (string, error) {
	roleARN, err := c.EnsureRole(ctx, stack)
	if err != nil {
		return "", err
	}

	functionARN, err := c.EnsureFunction(ctx, stack, roleARN, code)
	if err != nil {
		return "", err
	}

	if stack.Spec.Serverless.URL != nil {
		if err := c.EnsureFunctionURL(ctx, stack); err != nil {
			return "", err
		}
	}
	return functionARN, nil
}

// EnsureRole creates the function's IAM role if missing and attaches the
// basic execution policy plus the stack's extra policy ARNs. When the stack
// scales on queue depth, it also puts an inline policy granting access to
// those queues. Returns the role ARN.
func (c *Client) EnsureRole(ctx context.Context, stack *v1alpha1.Stack) (string, error) {
	roleName := stack.Spec.LambdaRoleName()

	roleARN, err := c.getOrCreateRole(ctx, roleName)
	if err != nil {
		return "", err
	}

	policyARNs := append([]string{BasicExecutionPolicyARN}, stack.Spec.Serverless.PolicyARNs...)
	for _, arn := range policyARNs {
		_, err := c.iam.AttachRolePolicy(ctx, &awsiam.AttachRolePolicyInput{
			RoleName:  aws.String(roleName),
			PolicyArn: aws.String(arn),
		})
		if err != nil {
			return "", fmt.Errorf("AttachRolePolicy(%s): %w", arn, err)
		}
	}

	if urls := queueTriggerURLs(stack); len(urls) > 0 {
		doc, err := sqsConsumePolicy(urls)
		if err != nil {
			return "", err
		}
		_, err = c.iam.PutRolePolicy(ctx, &awsiam.PutRolePolicyInput{
			RoleName:       aws.String(roleName),
			PolicyName:     aws.String(sqsPolicyName),
			PolicyDocument: aws.String(doc),
		})
		if err != nil {
			return "", fmt.Errorf("PutRolePolicy(%s): %w", sqsPolicyName, err)
		}
		klog.InfoS("attached queue consume policy", "role", roleName, "queues", len(urls))
	}

	return roleARN, nil
}

func (c *Client) getOrCreateRole(ctx context.Context, roleName string) (string, error) {
	out, err := c.iam.GetRole(ctx, &awsiam.GetRoleInput{RoleName: aws.String(roleName)})
	if err == nil {
		return aws.ToString(out.Role.Arn), nil
	}

	var notFound *iamtypes.NoSuchEntityException
	if !errors.As(err, &notFound) {
		return "", fmt.Errorf("GetRole(%s): %w", roleName, err)
	}

	trust, err := lambdaTrustPolicy()
	if err != nil {
		return "", err
	}

	klog.InfoS("creating IAM role", "role", roleName)
	created, err := c.iam.CreateRole(ctx, &awsiam.CreateRoleInput{
		RoleName:                 aws.String(roleName),
		AssumeRolePolicyDocument: aws.String(trust),
	})
	if err != nil {
		return "", fmt.Errorf("CreateRole(%s): %w", roleName, err)
	}
	return aws.ToString(created.Role.Arn), nil
}

// EnsureFunction creates the function or, when it already exists, updates
// its code and configuration in place. Returns the function ARN.
func (c *Client) EnsureFunction(ctx context.Context, stack *v1alpha1.Stack, roleARN string, code []byte) (string, error) {
	fn := stack.Spec.Serverless

	var environment *lambdatypes.Environment
	if len(fn.Environment) > 0 {
		environment = &lambdatypes.Environment{Variables: fn.Environment}
	}

	_, err := c.lambda.GetFunction(ctx, &awslambda.GetFunctionInput{
		FunctionName: aws.String(fn.FunctionName),
	})
	if err != nil {
		var notFound *lambdatypes.ResourceNotFoundException
		if !errors.As(err, &notFound) {
			return "", fmt.Errorf("GetFunction(%s): %w", fn.FunctionName, err)
		}

		klog.InfoS("creating function", "function", fn.FunctionName)
		created, err := c.lambda.CreateFunction(ctx, &awslambda.CreateFunctionInput{
			FunctionName: aws.String(fn.FunctionName),
			Role:         aws.String(roleARN),
			Handler:      aws.String(fn.Handler),
			Runtime:      lambdatypes.Runtime(fn.Runtime),
			Code:         &lambdatypes.FunctionCode{ZipFile: code},
			Environment:  environment,
			MemorySize:   fn.MemorySize,
			Timeout:      fn.Timeout,
		})
		if err != nil {
			return "", fmt.Errorf("CreateFunction(%s): %w", fn.FunctionName, err)
		}
		return aws.ToString(created.FunctionArn), nil
	}

	klog.InfoS("updating function", "function", fn.FunctionName)
	updated, err := c.lambda.UpdateFunctionCode(ctx, &awslambda.UpdateFunctionCodeInput{
		FunctionName: aws.String(fn.FunctionName),
		ZipFile:      code,
	})
	if err != nil {
		return "", fmt.Errorf("UpdateFunctionCode(%s): %w", fn.FunctionName, err)
	}

	_, err = c.lambda.UpdateFunctionConfiguration(ctx, &awslambda.UpdateFunctionConfigurationInput{
		FunctionName: aws.String(fn.FunctionName),
		Role:         aws.String(roleARN),
		Handler:      aws.String(fn.Handler),
		Runtime:      lambdatypes.Runtime(fn.Runtime),
		Environment:  environment,
		MemorySize:   fn.MemorySize,
		Timeout:      fn.Timeout,
	})
	if err != nil {
		return "", fmt.Errorf("UpdateFunctionConfiguration(%s): %w", fn.FunctionName, err)
	}
	return aws.ToString(updated.FunctionArn), nil
}

// EnsureFunctionURL provisions the function URL and its invoke permission.
// Only called when the stack enables the URL block; stacks without it get
// no URL configuration at all.
func (c *Client) EnsureFunctionURL(ctx context.Context, stack *v1alpha1.Stack) error {
	fn := stack.Spec.Serverless

	authType := lambdatypes.FunctionUrlAuthTypeNone
	if fn.URL.AuthType != "" {
		authType = lambdatypes.FunctionUrlAuthType(fn.URL.AuthType)
	}

	_, err := c.lambda.GetFunctionUrlConfig(ctx, &awslambda.GetFunctionUrlConfigInput{
		FunctionName: aws.String(fn.FunctionName),
	})
	if err != nil {
		var notFound *lambdatypes.ResourceNotFoundException
		if !errors.As(err, &notFound) {
			return fmt.Errorf("GetFunctionUrlConfig(%s): %w", fn.FunctionName, err)
		}

		klog.InfoS("creating function URL", "function", fn.FunctionName, "authType", authType)
		_, err = c.lambda.CreateFunctionUrlConfig(ctx, &awslambda.CreateFunctionUrlConfigInput{
			FunctionName: aws.String(fn.FunctionName),
			AuthType:     authType,
		})
		if err != nil {
			return fmt.Errorf("CreateFunctionUrlConfig(%s): %w", fn.FunctionName, err)
		}
	}

	_, err = c.lambda.AddPermission(ctx, &awslambda.AddPermissionInput{
		FunctionName:        aws.String(fn.FunctionName),
		StatementId:         aws.String("function-url-invoke"),
		Action:              aws.String("lambda:InvokeFunctionUrl"),
		Principal:           aws.String("*"),
		FunctionUrlAuthType: authType,
	})
	if err != nil {
		// The statement survives across applies; a conflict means it is
		// already in place.
		var conflict *lambdatypes.ResourceConflictException
		if errors.As(err, &conflict) {
			return nil
		}
		return fmt.Errorf("AddPermission(%s): %w", fn.FunctionName, err)
	}
	return nil
}

// queueTriggerURLs collects the queue URLs from the stack's queue-depth
// triggers, in order, without duplicates.
func queueTriggerURLs(stack *v1alpha1.Stack) []string {
	if stack.Spec.Autoscaling == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var urls []string
	for _, t := range stack.Spec.Autoscaling.Triggers {
		if t.Type != v1alpha1.TriggerTypeQueue || t.QueueURL == "" {
			continue
		}
		if _, ok := seen[t.QueueURL]; ok {
			continue
		}
		seen[t.QueueURL] = struct{}{}
		urls = append(urls, t.QueueURL)
	}
	return urls
}
