package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"ec2lister/internal/models"
)

// EC2ClientAPI defines the interface for EC2 operations we need to mock
//
//go:generate mockery --name=EC2ClientAPI --output=./mocks
type EC2ClientAPI interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
}

// InstanceServiceAPI defines the interface for instance listing operations
//
//go:generate mockery --name=InstanceServiceAPI --output=./mocks
type InstanceServiceAPI interface {
	ListInstances(ctx context.Context, region string) ([]models.InstanceRecord, error)
	ValidateRegion(ctx context.Context, region string) error
}
