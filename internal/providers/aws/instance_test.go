package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ec2lister/internal/providers/aws/mocks"
)

func TestListInstances_Success(t *testing.T) {
	mockClient := mocks.NewEC2ClientAPI(t)

	launchTime := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)

	expectedResponse := &ec2.DescribeInstancesOutput{
		Reservations: []types.Reservation{
			{
				Instances: []types.Instance{
					{
						InstanceId:   aws.String("i-1234567890abcdef0"),
						InstanceType: types.InstanceTypeT2Micro,
						State: &types.InstanceState{
							Name: types.InstanceStateNameRunning,
						},
						Placement: &types.Placement{
							AvailabilityZone: aws.String("eu-west-1a"),
						},
						PublicIpAddress: aws.String("54.0.0.1"),
						LaunchTime:      aws.Time(launchTime),
						Tags: []types.Tag{
							{
								Key:   aws.String("Environment"),
								Value: aws.String("testing"),
							},
							{
								Key:   aws.String("Name"),
								Value: aws.String("web1"),
							},
						},
						NetworkInterfaces: []types.InstanceNetworkInterface{
							{
								PrivateIpAddress: aws.String("10.0.0.1"),
							},
							{
								PrivateIpAddress: aws.String("10.0.0.2"),
							},
						},
					},
				},
			},
			{
				Instances: []types.Instance{
					{
						InstanceId:   aws.String("i-0fedcba0987654321"),
						InstanceType: types.InstanceTypeT3Large,
						State: &types.InstanceState{
							Name: types.InstanceStateNameStopped,
						},
					},
				},
			},
		},
	}

	mockClient.On("DescribeInstances",
		mock.Anything,
		mock.MatchedBy(func(input *ec2.DescribeInstancesInput) bool {
			return input.NextToken == nil
		}),
		mock.Anything,
	).Return(expectedResponse, nil)

	service := NewInstanceServiceWithClient(mockClient)
	records, err := service.ListInstances(context.Background(), "eu-west-1")

	assert.NoError(t, err)
	assert.Len(t, records, 2)

	// Provider order must be preserved
	first := records[0]
	assert.Equal(t, "i-1234567890abcdef0", first.ID)
	assert.Equal(t, "t2.micro", first.Type)
	assert.Equal(t, "running", first.State)
	assert.Equal(t, "eu-west-1a", first.AvailabilityZone)
	assert.NotNil(t, first.Name)
	assert.Equal(t, "web1", *first.Name)
	assert.NotNil(t, first.PublicIP)
	assert.Equal(t, "54.0.0.1", *first.PublicIP)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, first.PrivateIPs)
	assert.NotNil(t, first.LaunchTime)
	assert.True(t, launchTime.Equal(*first.LaunchTime))

	second := records[1]
	assert.Equal(t, "i-0fedcba0987654321", second.ID)
	assert.Equal(t, "stopped", second.State)
}

func TestListInstances_MissingOptionalFields(t *testing.T) {
	mockClient := mocks.NewEC2ClientAPI(t)

	// No Name tag, no public IP, no network interfaces
	response := &ec2.DescribeInstancesOutput{
		Reservations: []types.Reservation{
			{
				Instances: []types.Instance{
					{
						InstanceId:   aws.String("i-abc"),
						InstanceType: types.InstanceTypeT2Micro,
					},
				},
			},
		},
	}

	mockClient.On("DescribeInstances", mock.Anything, mock.Anything, mock.Anything).
		Return(response, nil)

	service := NewInstanceServiceWithClient(mockClient)
	records, err := service.ListInstances(context.Background(), "eu-west-1")

	assert.NoError(t, err)
	assert.Len(t, records, 1)

	record := records[0]
	assert.Nil(t, record.Name, "Missing Name tag should map to nil, not fail")
	assert.Nil(t, record.PublicIP, "Missing public IP should map to nil, not fail")
	assert.Nil(t, record.LaunchTime)
	assert.Empty(t, record.PrivateIPs)
	assert.NotNil(t, record.PrivateIPs, "PrivateIPs should be an empty list, not null")
}

func TestListInstances_FollowsNextToken(t *testing.T) {
	mockClient := mocks.NewEC2ClientAPI(t)

	firstPage := &ec2.DescribeInstancesOutput{
		Reservations: []types.Reservation{
			{
				Instances: []types.Instance{
					{InstanceId: aws.String("i-page1"), InstanceType: types.InstanceTypeT2Micro},
				},
			},
		},
		NextToken: aws.String("token-1"),
	}
	secondPage := &ec2.DescribeInstancesOutput{
		Reservations: []types.Reservation{
			{
				Instances: []types.Instance{
					{InstanceId: aws.String("i-page2"), InstanceType: types.InstanceTypeT2Micro},
				},
			},
		},
	}

	mockClient.On("DescribeInstances",
		mock.Anything,
		mock.MatchedBy(func(input *ec2.DescribeInstancesInput) bool {
			return input.NextToken == nil
		}),
		mock.Anything,
	).Return(firstPage, nil).Once()

	mockClient.On("DescribeInstances",
		mock.Anything,
		mock.MatchedBy(func(input *ec2.DescribeInstancesInput) bool {
			return input.NextToken != nil && *input.NextToken == "token-1"
		}),
		mock.Anything,
	).Return(secondPage, nil).Once()

	service := NewInstanceServiceWithClient(mockClient)
	records, err := service.ListInstances(context.Background(), "eu-west-1")

	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "i-page1", records[0].ID)
	assert.Equal(t, "i-page2", records[1].ID)
}

func TestListInstances_EmptyRegion(t *testing.T) {
	mockClient := mocks.NewEC2ClientAPI(t)

	mockClient.On("DescribeInstances", mock.Anything, mock.Anything, mock.Anything).
		Return(&ec2.DescribeInstancesOutput{}, nil)

	service := NewInstanceServiceWithClient(mockClient)
	records, err := service.ListInstances(context.Background(), "eu-west-1")

	assert.NoError(t, err)
	assert.NotNil(t, records, "An empty region should yield an empty list, not nil")
	assert.Empty(t, records)
}

func TestListInstances_AWSError(t *testing.T) {
	mockClient := mocks.NewEC2ClientAPI(t)

	expectedError := errors.New("api error AuthFailure: AWS was not able to validate the provided access credentials")
	mockClient.On("DescribeInstances", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, expectedError)

	service := NewInstanceServiceWithClient(mockClient)
	records, err := service.ListInstances(context.Background(), "eu-west-1")

	assert.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, IsErrorCategory(err, ErrPermissionDenied), "Expected permission_denied error category")
}

func TestValidateRegion_Valid(t *testing.T) {
	mockClient := mocks.NewEC2ClientAPI(t)

	mockClient.On("DescribeRegions", mock.Anything, mock.Anything, mock.Anything).
		Return(&ec2.DescribeRegionsOutput{
			Regions: []types.Region{
				{RegionName: aws.String("eu-west-1")},
				{RegionName: aws.String("us-east-1")},
			},
		}, nil)

	service := NewInstanceServiceWithClient(mockClient)
	err := service.ValidateRegion(context.Background(), "eu-west-1")

	assert.NoError(t, err)
}

func TestValidateRegion_Invalid(t *testing.T) {
	mockClient := mocks.NewEC2ClientAPI(t)

	mockClient.On("DescribeRegions", mock.Anything, mock.Anything, mock.Anything).
		Return(&ec2.DescribeRegionsOutput{
			Regions: []types.Region{
				{RegionName: aws.String("eu-west-1")},
			},
		}, nil)

	service := NewInstanceServiceWithClient(mockClient)
	err := service.ValidateRegion(context.Background(), "not-a-region")

	assert.Error(t, err)
	assert.True(t, IsErrorCategory(err, ErrInvalidRegion), "Expected invalid_region error category")
}

func TestValidateRegion_UsesFixedLookupRegion(t *testing.T) {
	mockClient := mocks.NewEC2ClientAPI(t)

	// The region listing must not depend on a default region in the SDK
	// config chain, nor route through the candidate region name.
	mockClient.On("DescribeRegions",
		mock.Anything,
		mock.Anything,
		mock.MatchedBy(func(fn func(*ec2.Options)) bool {
			o := ec2.Options{}
			fn(&o)
			return o.Region == regionLookupRegion
		}),
	).Return(&ec2.DescribeRegionsOutput{
		Regions: []types.Region{
			{RegionName: aws.String("eu-west-1")},
		},
	}, nil)

	service := NewInstanceServiceWithClient(mockClient)
	err := service.ValidateRegion(context.Background(), "not-a-region")

	assert.Error(t, err)
	assert.True(t, IsErrorCategory(err, ErrInvalidRegion))
}

func TestValidateRegion_ProviderFailure(t *testing.T) {
	mockClient := mocks.NewEC2ClientAPI(t)

	mockClient.On("DescribeRegions", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused"))

	service := NewInstanceServiceWithClient(mockClient)
	err := service.ValidateRegion(context.Background(), "eu-west-1")

	assert.Error(t, err)
	assert.True(t, IsErrorCategory(err, ErrNetworkError),
		"A transport failure during the region check must stay distinguishable from an unknown region")
	assert.False(t, IsErrorCategory(err, ErrInvalidRegion))
}

func TestClassifyAWSError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCategory
	}{
		{
			name:     "Auth failure",
			err:      errors.New("api error AuthFailure: invalid credentials"),
			expected: ErrPermissionDenied,
		},
		{
			name:     "Unauthorized operation",
			err:      errors.New("UnauthorizedOperation: not allowed"),
			expected: ErrPermissionDenied,
		},
		{
			name:     "Throttled",
			err:      errors.New("RequestLimitExceeded: slow down"),
			expected: ErrThrottling,
		},
		{
			name:     "Context deadline",
			err:      context.DeadlineExceeded,
			expected: ErrNetworkError,
		},
		{
			name:     "Connection refused",
			err:      errors.New("dial tcp 1.2.3.4:443: connection refused"),
			expected: ErrNetworkError,
		},
		{
			name:     "Invalid parameter",
			err:      errors.New("InvalidParameterValue: bad value"),
			expected: ErrInvalidInput,
		},
		{
			name:     "Unknown error",
			err:      errors.New("something else entirely"),
			expected: ErrInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := ClassifyAWSError(tt.err, "EC2", "eu-west-1")
			assert.Equal(t, tt.expected, classified.Category)
			assert.Equal(t, tt.err, classified.Unwrap())
		})
	}
}

func TestClassifyAWSError_Nil(t *testing.T) {
	assert.Nil(t, ClassifyAWSError(nil, "EC2", ""))
}
